package storage

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"rollwallet/wallet"
)

const snapshotVersion = 1

var snapshotKey = []byte("wallet/snapshot")

// RLP cannot encode maps, so the account table is flattened into sorted
// slices. Sorting keeps the encoding deterministic across saves.

type storedTokenBalance struct {
	Token  common.Address
	Amount *big.Int
}

type storedTokenIDs struct {
	Token    common.Address
	TokenIDs []*big.Int
}

type storedTokenQuantity struct {
	Token   common.Address
	TokenID *big.Int
	Value   *big.Int
}

type storedWallet struct {
	Address string
	Ether   *big.Int
	ERC20   []storedTokenBalance
	ERC721  []storedTokenIDs
	ERC1155 []storedTokenQuantity
}

type storedSnapshot struct {
	Version uint64
	HasDapp bool
	Dapp    common.Address
	Wallets []storedWallet
}

// SnapshotStore persists the full ledger state under a single key.
type SnapshotStore struct {
	db Database
}

func NewSnapshotStore(db Database) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Save encodes the current ledger state and writes it to the database.
func (s *SnapshotStore) Save(app *wallet.App) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: snapshot store not initialised")
	}
	snap := storedSnapshot{Version: snapshotVersion}
	if dapp, err := app.ApplicationAddress(); err == nil {
		snap.HasDapp = true
		snap.Dapp = dapp
	}

	dump := app.Dump()
	addresses := make([]string, 0, len(dump))
	for address := range dump {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)
	snap.Wallets = make([]storedWallet, 0, len(addresses))
	for _, address := range addresses {
		snap.Wallets = append(snap.Wallets, encodeWallet(address, dump[address]))
	}

	encoded, err := rlp.EncodeToBytes(&snap)
	if err != nil {
		return fmt.Errorf("storage: encode snapshot: %w", err)
	}
	return s.db.Put(snapshotKey, encoded)
}

// Load reads the persisted ledger state into the app. It returns false when
// no snapshot has been written yet.
func (s *SnapshotStore) Load(app *wallet.App) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("storage: snapshot store not initialised")
	}
	ok, err := s.db.Has(snapshotKey)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	encoded, err := s.db.Get(snapshotKey)
	if err != nil {
		return false, err
	}
	var snap storedSnapshot
	if err := rlp.DecodeBytes(encoded, &snap); err != nil {
		return false, fmt.Errorf("storage: decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return false, fmt.Errorf("storage: unsupported snapshot version %d", snap.Version)
	}

	wallets := make(map[string]*wallet.Wallet, len(snap.Wallets))
	for _, sw := range snap.Wallets {
		wallets[sw.Address] = decodeWallet(sw)
	}
	var dapp *common.Address
	if snap.HasDapp {
		address := snap.Dapp
		dapp = &address
	}
	app.Restore(wallets, dapp)
	return true, nil
}

func encodeWallet(address string, w *wallet.Wallet) storedWallet {
	sw := storedWallet{
		Address: address,
		Ether:   big.NewInt(0),
	}
	if w == nil {
		return sw
	}
	if w.Ether != nil {
		sw.Ether = new(big.Int).Set(w.Ether)
	}

	for token, balance := range w.ERC20 {
		sw.ERC20 = append(sw.ERC20, storedTokenBalance{Token: token, Amount: new(big.Int).Set(balance)})
	}
	sort.Slice(sw.ERC20, func(i, j int) bool {
		return bytes.Compare(sw.ERC20[i].Token.Bytes(), sw.ERC20[j].Token.Bytes()) < 0
	})

	for token, ids := range w.ERC721 {
		entry := storedTokenIDs{Token: token}
		for id := range ids {
			id := id
			entry.TokenIDs = append(entry.TokenIDs, id.ToBig())
		}
		sort.Slice(entry.TokenIDs, func(i, j int) bool {
			return entry.TokenIDs[i].Cmp(entry.TokenIDs[j]) < 0
		})
		sw.ERC721 = append(sw.ERC721, entry)
	}
	sort.Slice(sw.ERC721, func(i, j int) bool {
		return bytes.Compare(sw.ERC721[i].Token.Bytes(), sw.ERC721[j].Token.Bytes()) < 0
	})

	for token, quantities := range w.ERC1155 {
		for id, value := range quantities {
			id := id
			sw.ERC1155 = append(sw.ERC1155, storedTokenQuantity{
				Token:   token,
				TokenID: id.ToBig(),
				Value:   new(big.Int).Set(value),
			})
		}
	}
	sort.Slice(sw.ERC1155, func(i, j int) bool {
		if cmp := bytes.Compare(sw.ERC1155[i].Token.Bytes(), sw.ERC1155[j].Token.Bytes()); cmp != 0 {
			return cmp < 0
		}
		return sw.ERC1155[i].TokenID.Cmp(sw.ERC1155[j].TokenID) < 0
	})

	return sw
}

func decodeWallet(sw storedWallet) *wallet.Wallet {
	w := wallet.NewWallet()
	if sw.Ether != nil {
		w.Ether = new(big.Int).Set(sw.Ether)
	}
	for _, entry := range sw.ERC20 {
		w.ERC20[entry.Token] = new(big.Int).Set(entry.Amount)
	}
	for _, entry := range sw.ERC721 {
		ids := make(map[uint256.Int]struct{}, len(entry.TokenIDs))
		for _, id := range entry.TokenIDs {
			key, _ := uint256.FromBig(id)
			ids[*key] = struct{}{}
		}
		w.ERC721[entry.Token] = ids
	}
	for _, entry := range sw.ERC1155 {
		quantities, ok := w.ERC1155[entry.Token]
		if !ok {
			quantities = make(map[uint256.Int]*big.Int)
			w.ERC1155[entry.Token] = quantities
		}
		key, _ := uint256.FromBig(entry.TokenID)
		quantities[*key] = new(big.Int).Set(entry.Value)
	}
	return w
}
