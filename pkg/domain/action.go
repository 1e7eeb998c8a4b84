package domain

// ActionName identifies an action in the catalog.
type ActionName string

// Catalog actions.
const (
	ActionGetBalance         ActionName = "GET_BALANCE"
	ActionTransfer           ActionName = "TRANSFER"
	ActionGetTPS             ActionName = "GET_TPS"
	ActionRequestFaucetFunds ActionName = "REQUEST_FAUCET_FUNDS"
	ActionStakeWithJup       ActionName = "STAKE_WITH_JUP"
	ActionPythFetchPrice     ActionName = "PYTH_FETCH_PRICE"
	ActionStorkGetPrice      ActionName = "STORK_GET_PRICE"
	ActionRugcheckReport     ActionName = "RUGCHECK_TOKEN_REPORT"
	ActionTokenPrice         ActionName = "COINGECKO_TOKEN_PRICE"
	ActionTrendingTokens     ActionName = "COINGECKO_TRENDING_TOKENS"
	ActionLendingProtocols   ActionName = "DUNE_LENDING_PROTOCOLS"
	ActionCreateWallet       ActionName = "PRIVY_CREATE_WALLET"
	ActionListWallets        ActionName = "PRIVY_LIST_WALLETS"
	ActionSignMessage        ActionName = "PRIVY_SIGN_MESSAGE"
	ActionEVMGetBalance      ActionName = "EVM_GET_BALANCE"
	ActionGetFundingRate     ActionName = "GET_FUNDING_RATE"
)

var allActions = []ActionName{
	ActionGetBalance,
	ActionTransfer,
	ActionGetTPS,
	ActionRequestFaucetFunds,
	ActionStakeWithJup,
	ActionPythFetchPrice,
	ActionStorkGetPrice,
	ActionRugcheckReport,
	ActionTokenPrice,
	ActionTrendingTokens,
	ActionLendingProtocols,
	ActionCreateWallet,
	ActionListWallets,
	ActionSignMessage,
	ActionEVMGetBalance,
	ActionGetFundingRate,
}

// AllActions returns every catalog action in declaration order.
func AllActions() []ActionName {
	out := make([]ActionName, len(allActions))
	copy(out, allActions)
	return out
}

// ParseAction resolves a catalog action by name.
func ParseAction(name string) (ActionName, bool) {
	for _, a := range allActions {
		if string(a) == name {
			return a, true
		}
	}
	return "", false
}

func (a ActionName) String() string { return string(a) }
