package rollups

import "github.com/ethereum/go-ethereum/common"

// Deterministic deployment addresses of the rollup framework's portal
// contracts. Every supported network uses the same addresses, so they double
// as defaults; deployments on other address sets override them via PortalBook.
var (
	EtherPortalAddress         = common.HexToAddress("0xFfdbe43d4c855BF7e0f105c400A50857f53AB044")
	ERC20PortalAddress         = common.HexToAddress("0x9C21AEb2093C32DDbC53eEF24B873BDCd1aDa1DB")
	ERC721PortalAddress        = common.HexToAddress("0x237F8DD094C0e47f4236f12b4Fa01d6Dae89fb87")
	ERC1155SinglePortalAddress = common.HexToAddress("0x7CFB0193Ca87eB6e48056885E026552c3A941FC4")
	ERC1155BatchPortalAddress  = common.HexToAddress("0xedB53860A6B52bbb7561Ad596416ee9965B055Aa")
	DAppAddressRelayAddress    = common.HexToAddress("0xF5DE34d6BbC0446E2a45719E718efEbaaE179daE")
)

// PortalBook is the set of trusted portal senders used to dispatch inbound
// deposits. The addresses are deployment configuration, not derived values.
type PortalBook struct {
	EtherPortal         common.Address
	ERC20Portal         common.Address
	ERC721Portal        common.Address
	ERC1155SinglePortal common.Address
	ERC1155BatchPortal  common.Address
	DAppAddressRelay    common.Address
}

// DefaultPortalBook returns the portal book for the deterministic deployment.
func DefaultPortalBook() PortalBook {
	return PortalBook{
		EtherPortal:         EtherPortalAddress,
		ERC20Portal:         ERC20PortalAddress,
		ERC721Portal:        ERC721PortalAddress,
		ERC1155SinglePortal: ERC1155SinglePortalAddress,
		ERC1155BatchPortal:  ERC1155BatchPortalAddress,
		DAppAddressRelay:    DAppAddressRelayAddress,
	}
}
