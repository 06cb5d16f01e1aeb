package dialogue

// Replies holds every outbound text the engine can produce. Fields ending in
// a format verb are fmt templates. Like the keyword sets, reply texts are
// data, not logic.
type Replies struct {
	Greeting         string
	Menu             string
	DidNotUnderstand string
	AskPrice         string
	AskStock         string
	AskFaq           string
	ChooseProduct    string
	AgentHandoff     string
	ProductNotFound  string
	RetryProduct     string
	BuyPrompt        string
	DeclinePurchase  string
	FaqFallback      string
	UpsellGeneric    string

	// PriceInfo: product name, price, stock, specification.
	PriceInfo string
	// StockInfo: stock, product name.
	StockInfo     string
	StockNotFound string
	// CartAdded: product name, price.
	CartAdded string
	// UpsellTotal: upsell product name, cart total.
	UpsellTotal string
	// Total: cart total.
	Total string
}

// DefaultReplies returns the SavaStore texts from the original deployment.
func DefaultReplies() Replies {
	const menu = "[Preços] [Estoque] [FAQ] [Comprar] [Falar com atendente]"
	return Replies{
		Greeting: "Olá! Bem-vindo(a) à SavaStore! Estou aqui para ajudar no seu atendimento. " +
			"O que você quer? " + menu,
		Menu:             "O que mais posso ajudar? " + menu,
		DidNotUnderstand: "Desculpe, não entendi. Escolha uma opção: " + menu,
		AskPrice:         "Qual produto você quer saber o preço? (Ex.: iPhone 15, Galaxy S24, Alexa Echo Dot 5)",
		AskStock:         "De qual produto? (Ex.: Apple Watch 9, Xiaomi Watch 2)",
		AskFaq:           "Qual sua dúvida? (Ex.: Como configuro o Alexa?, Entrega é grátis?)",
		ChooseProduct: "Ótimo! Escolha o produto: [iPhone 15] [Galaxy S24] [Apple Watch 9] " +
			"[Alexa Echo Dot 5] [Xiaomi Watch 2]",
		AgentHandoff: "Ok! Um atendente irá te ajudar em breve. Enquanto isso, posso ajudar com algo mais? " +
			"[Sim] [Não]",
		ProductNotFound: "Desculpe, não encontrei esse produto. Tente outro, como iPhone 15 ou Galaxy S24.",
		RetryProduct: "Desculpe, não encontrei esse produto. Escolha outro: [iPhone 15] [Galaxy S24] " +
			"[Apple Watch 9] [Alexa Echo Dot 5] [Xiaomi Watch 2]",
		BuyPrompt:       "Deseja comprar? [Sim] [Não]",
		DeclinePurchase: "Ok! O que mais posso ajudar? " + menu,
		FaqFallback:     "Desculpe, não sei responder isso. Posso ajudar com outra coisa?",
		UpsellGeneric:   "Ótimo! Deseja mais alguma coisa? [Sim] [Não]",

		PriceInfo:     "%s custa R$%s. Estoque: %d unidades. Especificações: %s",
		StockInfo:     "Temos %d unidades de %s em estoque!",
		StockNotFound: "Desculpe, não encontrei esse produto.",
		CartAdded:     "Adicionei %s ao carrinho (R$%s).",
		UpsellTotal:   "Adicionei %s ao carrinho. Total: R$%s. Aqui está o link de pagamento: [link fictício].",
		Total:         "Ok! Seu total é R$%s. Aqui está o link de pagamento: [link fictício].",
	}
}

// UpsellRule associates a marker substring of the pending product with the
// companion product to offer. Resolution is a static table lookup.
type UpsellRule struct {
	Marker  string
	Product string
	Offer   string
}

// DefaultUpsellRules returns the store's fixed association table.
func DefaultUpsellRules() []UpsellRule {
	return []UpsellRule{
		{
			Marker:  "iphone",
			Product: "Capa iPhone 15",
			Offer:   "Que tal uma Capa iPhone 15 por R$99 para proteger seu novo iPhone? [Sim] [Não]",
		},
		{
			Marker:  "alexa",
			Product: "Xiaomi Watch 2",
			Offer:   "Você gostaria de um Xiaomi Watch 2 por R$799 para complementar? [Sim] [Não]",
		},
	}
}
