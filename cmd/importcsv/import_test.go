package importcsv_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/finance-sync/cmd/cmdtest"
	"fjacquet/finance-sync/cmd/importcsv"
	"fjacquet/finance-sync/internal/models"
	"fjacquet/finance-sync/internal/syncerror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statement = `date;amount;description;merchant;currency;external_id
15/03/2024;-65,90;IFOOD *RESTAURANTE;iFood;BRL;ext-a
16/03/2024;R$ 5.000,00;CREDITO SALARIO;;;ext-b
17/03/2024;;SEM VALOR;;;
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extrato.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImportCommand_Metadata(t *testing.T) {
	assert.Equal(t, "import", importcsv.Cmd.Use)
	assert.Contains(t, importcsv.Cmd.Long, "external_id")
	assert.Equal(t, "i", importcsv.Cmd.Flags().Lookup("input").Shorthand)
	assert.Equal(t, "export", importcsv.ExportCmd.Use)
	assert.Equal(t, "-", importcsv.ExportCmd.Flags().Lookup("output").DefValue)
}

func TestImportCommand(t *testing.T) {
	env := cmdtest.Use(t, nil)
	account := env.Account(t, "user-1", "")
	path := writeFile(t, statement)

	out, err := cmdtest.Run(t, importcsv.Cmd, map[string]string{"account": account.ID, "input": path})
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 of 3 rows (0 duplicates, 1 invalid)")
	assert.Contains(t, out, "row 3: invalid amount")
	assert.True(t, env.Logger.HasEntry("WARN", "Some rows were not imported"))

	out, err = cmdtest.Run(t, importcsv.Cmd, map[string]string{"account": account.ID, "input": path})
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 of 3 rows (2 duplicates, 1 invalid)")

	txs, err := env.Store.ListTransactions(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestImportCommand_Aborted(t *testing.T) {
	env := cmdtest.Use(t, nil)
	account := env.Account(t, "user-1", "")
	path := writeFile(t, "date,amount,description\nnope,1,a\n2024-03-01,,b\n2024-03-02,-10,ok\n")

	out, err := cmdtest.Run(t, importcsv.Cmd, map[string]string{"account": account.ID, "input": path})
	var aborted *syncerror.ImportAbortedError
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, 2, aborted.Invalid)
	assert.Contains(t, out, "row 1: invalid date")

	txs, err := env.Store.ListTransactions(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestImportCommand_Stdin(t *testing.T) {
	env := cmdtest.Use(t, nil)
	account := env.Account(t, "user-1", "")
	importcsv.Cmd.SetIn(strings.NewReader("date,amount,description\n2024-03-01,-10.50,UBER TRIP\n"))
	t.Cleanup(func() { importcsv.Cmd.SetIn(nil) })

	out, err := cmdtest.Run(t, importcsv.Cmd, map[string]string{"account": account.ID, "input": "-"})
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 of 1 rows")
}

func TestImportCommand_Errors(t *testing.T) {
	env := cmdtest.Use(t, nil)
	account := env.Account(t, "user-1", "")

	_, err := cmdtest.Run(t, importcsv.Cmd, map[string]string{"account": account.ID, "input": filepath.Join(t.TempDir(), "missing.csv")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")

	_, err = cmdtest.Run(t, importcsv.Cmd, map[string]string{"account": "unknown", "input": writeFile(t, statement)})
	assert.ErrorIs(t, err, syncerror.ErrAccountNotFound)
}

func TestExportCommand(t *testing.T) {
	env := cmdtest.Use(t, nil)
	account := env.Account(t, "user-1", "")
	_, err := cmdtest.Run(t, importcsv.Cmd, map[string]string{"account": account.ID, "input": writeFile(t, statement)})
	require.NoError(t, err)

	out, err := cmdtest.Run(t, importcsv.ExportCmd, map[string]string{"account": account.ID})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "external_id;date;amount"))
	assert.Contains(t, out, "ext-a;2024-03-15;-65.90;BRL;debit;IFOOD *RESTAURANTE;iFood;"+models.CategoryFood)

	path := filepath.Join(t.TempDir(), "out.csv")
	_, err = cmdtest.Run(t, importcsv.ExportCmd, map[string]string{"account": account.ID, "output": path})
	require.NoError(t, err)
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(written))
}
