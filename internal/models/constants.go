package models

// Classification outcomes shared by the classifier and its callers.
const (
	CategoryUncategorized   = "Uncategorized"
	SubcategoryManualReview = "Requires manual classification"
	IconUncategorized       = "help-circle"
	ColorUncategorized      = "#9E9E9E"
	DefaultConfidenceCutoff = 80
	MaxConfidence           = 100
)

// Category names the sign-based re-classification pass reasons about.
const (
	CategoryInvestments   = "Investimentos"
	CategoryIncome        = "Receitas"
	CategoryBills         = "Contas e Serviços"
	CategoryFood          = "Alimentação"
	CategorySubscriptions = "Assinaturas e Serviços"
	CategoryTransfers     = "Transferências"

	SubcategoryInvestmentReturns = "Rendimentos de Investimentos"
	SubcategoryInvestmentContrib = "Aplicações"
	SubcategorySalary            = "Salário"
	SubcategoryPayrollDeductions = "Débitos e Descontos"
)

// Transaction types derived from the amount sign.
const (
	TransactionTypeDebit  = "debit"
	TransactionTypeCredit = "credit"
)

// File permissions
const (
	PermissionDirectory = 0750
)
