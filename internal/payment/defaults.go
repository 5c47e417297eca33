package payment

// DefaultMethods returns the payment channels offered before any are configured.
func DefaultMethods() []Method {
	return []Method{
		{ID: "cash", Label: "現金", Kind: KindCash},
		{ID: "jpbank", Label: "JPBank", Kind: KindDebit},
		{ID: "jabank", Label: "JABank", Kind: KindDebit},
		{ID: "revolut", Label: "Revolut", Kind: KindDigital},
	}
}
