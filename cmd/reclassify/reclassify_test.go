package reclassify_test

import (
	"context"
	"testing"
	"time"

	"fjacquet/finance-sync/cmd/cmdtest"
	"fjacquet/finance-sync/cmd/reclassify"
	"fjacquet/finance-sync/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReclassifyCommand_Metadata(t *testing.T) {
	assert.Equal(t, "reclassify", reclassify.Cmd.Use)
	assert.NotNil(t, reclassify.Cmd.RunE)
	assert.Equal(t, "a", reclassify.Cmd.Flags().Lookup("account").Shorthand)
}

func TestReclassifyCommand_WorksWithoutProvider(t *testing.T) {
	env := cmdtest.Use(t, nil)
	account := env.Account(t, "user-1", "ext-1")
	ctx := context.Background()

	stale := func(id, description string) models.TransactionRecord {
		return models.TransactionRecord{
			ExternalID:  id,
			AccountID:   account.ID,
			OccurredAt:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("-65.90"),
			Currency:    "BRL",
			Description: description,
			Category:    models.CategoryUncategorized,
			Subcategory: models.SubcategoryManualReview,
		}
	}
	_, err := env.Store.InsertTransactions(ctx, []models.TransactionRecord{
		stale("t1", "IFOOD *RESTAURANTE"),
		stale("t2", "XYZ 123"),
	})
	require.NoError(t, err)

	out, err := cmdtest.Run(t, reclassify.Cmd, map[string]string{"account": account.ID})
	require.NoError(t, err)
	assert.Contains(t, out, "1 transactions reclassified")

	txs, err := env.Store.ListTransactions(ctx, account.ID)
	require.NoError(t, err)
	categories := map[string]string{}
	for _, tx := range txs {
		categories[tx.ExternalID] = tx.Category
	}
	assert.Equal(t, models.CategoryFood, categories["t1"])
	assert.Equal(t, models.CategoryUncategorized, categories["t2"])

	out, err = cmdtest.Run(t, reclassify.Cmd, map[string]string{"account": account.ID})
	require.NoError(t, err)
	assert.Contains(t, out, "0 transactions reclassified")
}
