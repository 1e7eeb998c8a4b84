package catalog

// Input structs. Field order is the validation order.

type balanceInput struct {
	TokenAddress string `json:"token_address,omitempty" jsonschema_description:"Optional SPL token mint address; omit for SOL"`
}

type transferInput struct {
	To     string  `json:"to" jsonschema:"required" jsonschema_description:"Recipient wallet address"`
	Amount float64 `json:"amount" jsonschema:"required,minimum=0" jsonschema_description:"Amount to transfer"`
	Mint   string  `json:"mint,omitempty" jsonschema_description:"Optional SPL token mint address"`
}

type noInput struct{}

type faucetInput struct {
	Amount float64 `json:"amount,omitempty" jsonschema:"minimum=0,maximum=5" jsonschema_description:"SOL to request"`
}

type stakeInput struct {
	Amount float64 `json:"amount" jsonschema:"required,minimum=0" jsonschema_description:"SOL to stake"`
}

type pythInput struct {
	PriceFeedID string `json:"price_feed_id" jsonschema:"required" jsonschema_description:"Hex id of the Pyth price feed"`
}

type storkInput struct {
	AssetID string `json:"asset_id" jsonschema:"required" jsonschema_description:"Stork asset id, e.g. BTCUSD"`
}

type rugcheckInput struct {
	Mint string `json:"mint" jsonschema:"required" jsonschema_description:"Token mint address"`
}

type tokenPriceInput struct {
	TokenAddresses any    `json:"token_addresses" jsonschema:"required,oneof_type=string;array" jsonschema_description:"Mint addresses, as a list or comma separated"`
	VsCurrency     string `json:"vs_currency,omitempty" jsonschema_description:"Quote currency"`
}

type lendingInput struct {
	Chain string `json:"chain,omitempty" jsonschema_description:"Only protocols on this chain"`
}

type listWalletsInput struct {
	Cursor string `json:"cursor,omitempty" jsonschema_description:"Pagination cursor from a previous call"`
}

type signMessageInput struct {
	WalletID string `json:"wallet_id" jsonschema:"required" jsonschema_description:"Custodial wallet id"`
	Message  string `json:"message" jsonschema:"required" jsonschema_description:"UTF-8 message to sign"`
}

type evmBalanceInput struct {
	Address string `json:"address" jsonschema:"required" jsonschema_description:"0x-prefixed account address"`
}

type fundingRateInput struct {
	Symbol string `json:"symbol" jsonschema:"required" jsonschema_description:"Perp market, e.g. SOL-PERP"`
}
