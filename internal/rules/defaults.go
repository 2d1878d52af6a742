package rules

import (
	"regexp"

	"fjacquet/finance-sync/internal/models"
)

// Default returns the built-in catalog.
// Keyword-only matches score 70+priority, so keyword rules below priority 10
// never clear the default threshold on their own.
func Default() *Catalog {
	return MustNew(defaultRules())
}

func re(expr string) *regexp.Regexp {
	return regexp.MustCompile(expr)
}

func defaultRules() []Rule {
	return []Rule{
		// Alimentação
		{
			Category:    models.CategoryFood,
			Subcategory: "Restaurantes e Delivery",
			Brands:      []string{"ifood", "rappi", "uber eats", "ze delivery", "mcdonalds", "burger king", "outback", "subway", "habibs", "giraffas", "spoleto", "madero"},
			Keywords:    []string{"restaurante", "lanchonete", "pizzaria", "churrascaria", "hamburgueria", "delivery", "sushi"},
			Priority:    8,
			Icon:        "utensils",
			Color:       "#FF7043",
		},
		{
			Category:    models.CategoryFood,
			Subcategory: "Supermercado",
			Brands:      []string{"carrefour", "pao de acucar", "assai", "atacadao", "supermercado extra", "sams club", "mambo", "st marche", "oba hortifruti", "zaffari", "guanabara"},
			Keywords:    []string{"supermercado", "mercado", "hortifruti", "acougue", "atacarejo", "mercearia"},
			Priority:    12,
			Icon:        "shopping-cart",
			Color:       "#8BC34A",
		},
		{
			Category:    models.CategoryFood,
			Subcategory: "Padaria e Café",
			Brands:      []string{"starbucks", "casa bauducco", "kopenhagen", "cacau show"},
			Keywords:    []string{"padaria", "panificadora", "cafeteria", "confeitaria", "doceria"},
			Priority:    11,
			Icon:        "coffee",
			Color:       "#A1887F",
		},

		// Transporte
		{
			Category:    "Transporte",
			Subcategory: "Aplicativos de Transporte",
			Brands:      []string{"uber trip", "uber do brasil", "uber br", "99app", "99 pop", "99 taxi", "cabify", "indrive"},
			Keywords:    []string{"corrida", "taxi"},
			Priority:    6,
			Icon:        "car",
			Color:       "#42A5F5",
		},
		{
			Category:    "Transporte",
			Subcategory: "Combustível",
			Brands:      []string{"shell", "ipiranga", "petrobras", "br mania", "posto ale", "raizen"},
			Keywords:    []string{"posto", "combustivel", "gasolina", "etanol", "diesel", "auto posto"},
			Priority:    12,
			Icon:        "fuel",
			Color:       "#1E88E5",
		},
		{
			Category:    "Transporte",
			Subcategory: "Estacionamento e Pedágio",
			Brands:      []string{"sem parar", "conectcar", "veloe", "estapar", "zul digital", "move mais"},
			Keywords:    []string{"estacionamento", "pedagio", "parking"},
			Priority:    12,
			Icon:        "parking-circle",
			Color:       "#1565C0",
		},
		{
			Category:    "Transporte",
			Subcategory: "Transporte Público",
			Brands:      []string{"sptrans", "cptm", "metro sp", "metrorio", "bom bilhete"},
			Keywords:    []string{"metro", "onibus", "bilhete unico", "recarga transporte"},
			Priority:    10,
			Icon:        "bus",
			Color:       "#0D47A1",
		},

		// Moradia
		{
			Category:    "Moradia",
			Subcategory: "Aluguel e Condomínio",
			Keywords:    []string{"aluguel", "condominio", "administradora de imoveis", "imobiliaria"},
			Brands:      []string{"quintoandar", "quinto andar", "lello", "auxiliadora predial"},
			Priority:    14,
			Icon:        "home",
			Color:       "#6D4C41",
		},
		{
			Category:    "Moradia",
			Subcategory: "Manutenção e Reparos",
			Keywords:    []string{"reforma", "encanador", "eletricista", "chaveiro", "dedetizacao", "manutencao residencial"},
			Priority:    10,
			Icon:        "wrench",
			Color:       "#8D6E63",
		},

		// Contas e Serviços
		{
			Category:    models.CategoryBills,
			Subcategory: "Energia Elétrica",
			Brands:      []string{"enel", "cemig", "light servicos", "copel", "celesc", "cpfl", "neoenergia", "coelba", "equatorial energia", "energisa"},
			Keywords:    []string{"energia eletrica", "conta de luz", "conta de energia"},
			Priority:    14,
			Icon:        "zap",
			Color:       "#FFC107",
		},
		{
			Category:    models.CategoryBills,
			Subcategory: "Água e Saneamento",
			Brands:      []string{"sabesp", "cedae", "copasa", "sanepar", "embasa", "compesa", "aguas do rio"},
			Keywords:    []string{"agua e esgoto", "conta de agua", "saneamento"},
			Priority:    14,
			Icon:        "droplet",
			Color:       "#29B6F6",
		},
		{
			Category:    models.CategoryBills,
			Subcategory: "Telefonia e Internet",
			Brands:      []string{"vivo fibra", "vivo movel", "telefonica", "claro net", "claro sa", "net servicos", "tim celular", "tim sa", "oi fibra", "oi movel", "algar telecom", "sky brasil"},
			Keywords:    []string{"telefonia", "internet banda larga", "plano celular", "recarga celular"},
			Priority:    13,
			Icon:        "wifi",
			Color:       "#7E57C2",
		},
		{
			Category:    models.CategoryBills,
			Subcategory: "Tarifas Bancárias",
			Keywords:    []string{"tarifa bancaria", "cesta de servicos", "tarifa pacote", "anuidade", "tarifa de manutencao", "tarifa ted", "tarifa saque"},
			Priority:    15,
			Icon:        "landmark",
			Color:       "#78909C",
		},
		{
			Category:    models.CategoryBills,
			Subcategory: models.SubcategoryPayrollDeductions,
			Keywords:    []string{"debito automatico", "desconto em folha", "consignado", "parcela emprestimo"},
			Priority:    12,
			Icon:        "file-minus",
			Color:       "#90A4AE",
		},

		// Assinaturas e Serviços
		{
			Category:    models.CategorySubscriptions,
			Subcategory: "Streaming",
			Patterns: []*regexp.Regexp{
				re(`\bnetflix\b`),
				re(`\bspotify\b`),
				re(`\bdisney ?(plus)?\b`),
				re(`\bhbo ?max\b|\bmax com\b`),
				re(`\bprime ?video\b|\bamazon prime\b`),
				re(`\bdeezer\b`),
				re(`\bglobo ?play\b`),
				re(`\byoutube ?premium\b`),
				re(`\bparamount\b`),
				re(`\bcrunchyroll\b`),
				re(`\bapple com bill\b`),
			},
			Priority: 10,
			Icon:     "tv",
			Color:    "#E53935",
		},
		{
			Category:    models.CategorySubscriptions,
			Subcategory: "Software e Nuvem",
			Brands:      []string{"google storage", "google one", "microsoft", "adobe", "dropbox", "icloud", "openai", "chatgpt", "github", "canva", "notion"},
			Keywords:    []string{"licenca de software", "armazenamento em nuvem"},
			Priority:    10,
			Icon:        "cloud",
			Color:       "#5C6BC0",
		},
		{
			Category:    models.CategorySubscriptions,
			Subcategory: "Assinaturas Diversas",
			Keywords:    []string{"assinatura", "mensalidade", "recorrente", "clube de assinatura"},
			Priority:    10,
			Icon:        "repeat",
			Color:       "#EF5350",
		},

		// Saúde
		{
			Category:    "Saúde",
			Subcategory: "Farmácia",
			Brands:      []string{"drogasil", "droga raia", "drogaria sao paulo", "pague menos", "panvel", "drogarias pacheco", "onofre", "ultrafarma"},
			Keywords:    []string{"farmacia", "drogaria", "drogas"},
			Priority:    13,
			Icon:        "pill",
			Color:       "#26A69A",
		},
		{
			Category:    "Saúde",
			Subcategory: "Plano de Saúde",
			Brands:      []string{"unimed", "amil", "sulamerica saude", "bradesco saude", "hapvida", "notredame", "porto saude", "prevent senior"},
			Keywords:    []string{"plano de saude", "plano odontologico", "convenio medico"},
			Priority:    16,
			Icon:        "heart-pulse",
			Color:       "#00897B",
		},
		{
			Category:    "Saúde",
			Subcategory: "Consultas e Exames",
			Brands:      []string{"fleury", "dasa", "hermes pardini", "lavoisier", "delboni"},
			Keywords:    []string{"clinica", "consultorio", "laboratorio", "hospital", "exame", "odontologia", "dentista", "psicologo", "fisioterapia"},
			Priority:    12,
			Icon:        "stethoscope",
			Color:       "#00695C",
		},

		// Educação
		{
			Category:    "Educação",
			Subcategory: "Cursos e Escolas",
			Brands:      []string{"udemy", "alura", "coursera", "duolingo", "descomplica", "wizard", "cultura inglesa", "ccaa"},
			Keywords:    []string{"escola", "colegio", "faculdade", "universidade", "curso de", "curso livre", "mensalidade escolar", "matricula"},
			Priority:    12,
			Icon:        "graduation-cap",
			Color:       "#3949AB",
		},
		{
			Category:    "Educação",
			Subcategory: "Livros e Material",
			Brands:      []string{"saraiva", "livraria cultura", "kalunga", "estante virtual"},
			Keywords:    []string{"livraria", "papelaria", "material escolar"},
			Priority:    11,
			Icon:        "book-open",
			Color:       "#5E35B1",
		},

		// Lazer
		{
			Category:    "Lazer",
			Subcategory: "Cinema e Eventos",
			Brands:      []string{"cinemark", "ingresso com", "sympla", "eventim", "ticketmaster", "uci cinemas", "kinoplex", "cinepolis"},
			Keywords:    []string{"cinema", "teatro", "ingresso", "show"},
			Priority:    11,
			Icon:        "ticket",
			Color:       "#EC407A",
		},
		{
			Category:    "Lazer",
			Subcategory: "Academia e Esportes",
			Brands:      []string{"smart fit", "smartfit", "bodytech", "bluefit", "gympass", "wellhub", "selfit", "totalpass"},
			Keywords:    []string{"academia", "crossfit", "pilates", "natacao"},
			Priority:    12,
			Icon:        "dumbbell",
			Color:       "#D81B60",
		},
		{
			Category:    "Lazer",
			Subcategory: "Jogos",
			Brands:      []string{"steam", "steamgames", "playstation", "xbox", "nintendo", "epic games", "riot games", "garena"},
			Priority:    10,
			Icon:        "gamepad-2",
			Color:       "#AD1457",
		},
		{
			Category:    "Lazer",
			Subcategory: "Bares e Vida Noturna",
			Keywords:    []string{"choperia", "cervejaria", "boteco", "balada", "casa noturna"},
			Priority:    10,
			Icon:        "wine",
			Color:       "#C2185B",
		},

		// Compras
		{
			Category:    "Compras",
			Subcategory: "Marketplace",
			Brands:      []string{"mercado livre", "mercadolivre", "mercadopago", "amazon", "shopee", "aliexpress", "magalu", "magazine luiza", "americanas", "shein", "casas bahia", "submarino", "temu"},
			Keywords:    []string{"marketplace", "loja online"},
			Priority:    9,
			Icon:        "shopping-bag",
			Color:       "#FB8C00",
		},
		{
			Category:    "Compras",
			Subcategory: "Vestuário e Calçados",
			Brands:      []string{"renner", "riachuelo", "zara", "hering", "centauro", "netshoes", "marisa", "cea modas", "arezzo", "dafiti", "nike", "adidas"},
			Keywords:    []string{"roupa", "calcado", "vestuario", "sapataria", "boutique"},
			Priority:    10,
			Icon:        "shirt",
			Color:       "#F57C00",
		},
		{
			Category:    "Compras",
			Subcategory: "Casa e Construção",
			Brands:      []string{"leroy merlin", "telhanorte", "tok stok", "camicado", "madeiramadeira", "c c casa", "obramax"},
			Keywords:    []string{"material de construcao", "moveis", "home center", "decoracao"},
			Priority:    10,
			Icon:        "hammer",
			Color:       "#EF6C00",
		},
		{
			Category:    "Compras",
			Subcategory: "Eletrônicos",
			Brands:      []string{"kabum", "fast shop", "fastshop", "apple store", "samsung", "dell", "terabyte", "pichau"},
			Keywords:    []string{"eletronicos", "informatica", "celulares"},
			Priority:    10,
			Icon:        "smartphone",
			Color:       "#E65100",
		},

		// Cuidados Pessoais
		{
			Category:    "Cuidados Pessoais",
			Subcategory: "Beleza e Estética",
			Brands:      []string{"o boticario", "boticario", "natura cosmeticos", "sephora", "avon", "eudora", "quem disse berenice"},
			Keywords:    []string{"salao", "barbearia", "cabeleireiro", "estetica", "manicure", "depilacao", "cosmeticos", "perfumaria"},
			Priority:    11,
			Icon:        "sparkles",
			Color:       "#F06292",
		},

		// Pets
		{
			Category:    "Pets",
			Subcategory: "Pet Shop e Veterinário",
			Brands:      []string{"petz", "cobasi", "petlove", "dog hero"},
			Keywords:    []string{"pet shop", "petshop", "veterinario", "veterinaria", "racao", "banho e tosa"},
			Priority:    12,
			Icon:        "paw-print",
			Color:       "#9CCC65",
		},

		// Viagem
		{
			Category:    "Viagem",
			Subcategory: "Passagens e Hospedagem",
			Brands:      []string{"latam", "gol linhas", "azul linhas", "voeazul", "airbnb", "booking com", "decolar", "123milhas", "hurb", "maxmilhas", "trivago", "expedia", "buser", "clickbus"},
			Keywords:    []string{"hotel", "pousada", "passagem aerea", "hospedagem", "hostel", "rodoviaria"},
			Priority:    12,
			Icon:        "plane",
			Color:       "#00ACC1",
		},

		// Seguros
		{
			Category:    "Seguros",
			Subcategory: "Seguros",
			Brands:      []string{"porto seguro", "sulamerica seguros", "mapfre", "allianz", "tokio marine", "azul seguros", "hdi seguros", "liberty seguros", "youse"},
			Keywords:    []string{"seguro auto", "seguro residencial", "seguro de vida", "apolice", "premio de seguro"},
			Priority:    14,
			Icon:        "shield",
			Color:       "#546E7A",
		},

		// Impostos e Taxas
		{
			Category:    "Impostos e Taxas",
			Subcategory: "Impostos",
			Keywords:    []string{"iptu", "ipva", "darf", "imposto", "iof", "das simples", "gps inss", "licenciamento", "detran", "multa de transito", "receita federal", "dpvat"},
			Priority:    15,
			Icon:        "receipt",
			Color:       "#455A64",
		},

		// Transferências
		{
			Category:    models.CategoryTransfers,
			Subcategory: "PIX e TED",
			Keywords:    []string{"pix", "transf", "ted enviada", "ted recebida", "doc enviado", "doc recebido"},
			Priority:    11,
			Icon:        "arrow-left-right",
			Color:       "#BDBDBD",
		},
		{
			Category:    models.CategoryTransfers,
			Subcategory: "Saques",
			Keywords:    []string{"saque", "saque 24h", "banco24horas"},
			Priority:    11,
			Icon:        "banknote",
			Color:       "#9E9E9E",
		},

		// Receitas
		{
			Category:    models.CategoryIncome,
			Subcategory: models.SubcategorySalary,
			Keywords:    []string{"salario", "folha de pagamento", "pagamento de salario", "vencimentos", "remuneracao", "adiantamento salarial", "13o salario", "decimo terceiro", "ferias"},
			Priority:    18,
			Icon:        "wallet",
			Color:       "#43A047",
		},
		{
			Category:    models.CategoryIncome,
			Subcategory: models.SubcategoryInvestmentReturns,
			Keywords:    []string{"rendimento", "rendimentos", "dividendos", "juros sobre capital proprio", "jcp", "resgate", "amortizacao", "cupom de juros"},
			Priority:    15,
			Icon:        "trending-up",
			Color:       "#2E7D32",
		},

		// Investimentos
		{
			Category:    models.CategoryInvestments,
			Subcategory: models.SubcategoryInvestmentContrib,
			Patterns:    []*regexp.Regexp{re(`\b(cdb|lci|lca|cri|cra)\b`)},
			Keywords:    []string{"tesouro direto", "tesouro selic", "tesouro ipca", "aplicacao", "fundo de investimento", "debenture"},
			Priority:    15,
			Icon:        "piggy-bank",
			Color:       "#00796B",
		},
		{
			Category:    models.CategoryInvestments,
			Subcategory: "Corretoras",
			Brands:      []string{"xp investimentos", "rico investimentos", "clear corretora", "nuinvest", "btg pactual", "avenue securities", "modalmais", "genial investimentos", "toro investimentos", "binance", "mercado bitcoin"},
			Priority:    14,
			Icon:        "candlestick-chart",
			Color:       "#004D40",
		},

		// Institutional products: the bank name or the product alone is not enough.
		{
			Category:         "Produtos Financeiros",
			Subcategory:      "Previdência e Capitalização",
			Brands:           []string{"itau", "bradesco", "santander", "caixa", "banco do brasil", "nubank", "banco inter", "sicredi", "sicoob", "brasilprev", "bradesco vida e previdencia"},
			Keywords:         []string{"previdencia", "capitalizacao", "consorcio", "titulo de capitalizacao", "pgbl", "vgbl"},
			RequiresCompound: true,
			Priority:         20,
			Icon:             "building-2",
			Color:            "#3E2723",
		},
	}
}
