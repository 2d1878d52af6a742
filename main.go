package main

import (
	"fmt"
	"os"

	"fjacquet/finance-sync/cmd/accountsync"
	"fjacquet/finance-sync/cmd/budgets"
	"fjacquet/finance-sync/cmd/categories"
	"fjacquet/finance-sync/cmd/classify"
	"fjacquet/finance-sync/cmd/connect"
	"fjacquet/finance-sync/cmd/importcsv"
	"fjacquet/finance-sync/cmd/reclassify"
	"fjacquet/finance-sync/cmd/root"
	"fjacquet/finance-sync/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
	root.Cmd.AddCommand(connect.Cmd)
	root.Cmd.AddCommand(accountsync.Cmd)
	root.Cmd.AddCommand(reclassify.Cmd)
	root.Cmd.AddCommand(budgets.Cmd)
	root.Cmd.AddCommand(importcsv.Cmd)
	root.Cmd.AddCommand(importcsv.ExportCmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	err := root.Cmd.Execute()
	root.Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
