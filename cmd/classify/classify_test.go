package classify_test

import (
	"encoding/json"
	"testing"

	"fjacquet/finance-sync/cmd/classify"
	"fjacquet/finance-sync/cmd/cmdtest"
	"fjacquet/finance-sync/cmd/root"
	"fjacquet/finance-sync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCommand_Metadata(t *testing.T) {
	assert.Equal(t, "classify", classify.Cmd.Use)
	assert.Contains(t, classify.Cmd.Short, "Classify")
	assert.NotNil(t, classify.Cmd.RunE)

	description := classify.Cmd.Flags().Lookup("description")
	require.NotNil(t, description)
	assert.Equal(t, "d", description.Shorthand)
	assert.Equal(t, "a", classify.Cmd.Flags().Lookup("amount").Shorthand)
	assert.Equal(t, "m", classify.Cmd.Flags().Lookup("merchant").Shorthand)
	assert.Equal(t, root.FormatText, classify.Cmd.Flags().Lookup("output").DefValue)
}

func TestClassifyCommand_Run(t *testing.T) {
	cmdtest.Use(t, nil)

	tests := []struct {
		name     string
		flags    map[string]string
		contains []string
	}{
		{
			name:     "delivery",
			flags:    map[string]string{"description": "IFOOD *RESTAURANTE", "merchant": "iFood", "amount": "-65,90"},
			contains: []string{"Category:    " + models.CategoryFood, "Subcategory: Restaurantes e Delivery", "Confidence:  98", "Matched by:"},
		},
		{
			name:     "brazilian amount flips sign rule",
			flags:    map[string]string{"description": "CDB APLICACAO", "amount": "R$ 1.000,00"},
			contains: []string{models.CategoryIncome, models.SubcategoryInvestmentReturns},
		},
		{
			name:     "unknown",
			flags:    map[string]string{"description": "XYZ 123"},
			contains: []string{models.CategoryUncategorized, models.SubcategoryManualReview},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := cmdtest.Run(t, classify.Cmd, tt.flags)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestClassifyCommand_JSON(t *testing.T) {
	cmdtest.Use(t, nil)

	out, err := cmdtest.Run(t, classify.Cmd, map[string]string{
		"description": "ASSINATURA NETFLIX.COM",
		"output":      root.FormatJSON,
	})
	require.NoError(t, err)

	var result models.ClassificationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, models.CategorySubscriptions, result.Category)
	assert.Equal(t, "Streaming", result.Subcategory)
	assert.Equal(t, 100, result.Confidence)
}

func TestClassifyCommand_InvalidAmount(t *testing.T) {
	cmdtest.Use(t, nil)

	_, err := cmdtest.Run(t, classify.Cmd, map[string]string{"description": "IFOOD", "amount": "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")
}

func TestClassifyCommand_WithoutContainer(t *testing.T) {
	cmdtest.Use(t, nil)
	root.AppContainer = nil

	out, err := cmdtest.Run(t, classify.Cmd, map[string]string{"description": "IFOOD *RESTAURANTE"})
	require.NoError(t, err)
	assert.Contains(t, out, models.CategoryFood)
	assert.Nil(t, root.AppContainer)
}
