// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/consts"
)

// State
// 0x0/ (accounts)
//   -> [address] => lamports|owner|executable|data

const accountPrefix = 0x0

// MaxPermittedDataLength bounds the data of a single account.
const MaxPermittedDataLength = 10 * 1024 * 1024

// Account is a storage cell of the ledger. A missing account behaves like an
// empty account owned by the system program.
type Account struct {
	Lamports   uint64        `json:"lamports"`
	Owner      codec.Address `json:"owner"`
	Executable bool          `json:"executable"`
	Data       []byte        `json:"data"`
}

// Empty reports whether the account was never allocated (or was purged).
func (a *Account) Empty() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.Owner == SystemProgramID
}

func (a *Account) Size() int {
	return consts.Uint64Len + codec.AddressLen + consts.BoolLen + codec.BytesLen(a.Data)
}

func (a *Account) Marshal() []byte {
	p := codec.NewWriter(a.Size(), a.Size())
	p.PackUint64(a.Lamports)
	p.PackAddress(a.Owner)
	p.PackBool(a.Executable)
	p.PackBytes(a.Data)
	return p.Bytes()
}

func UnmarshalAccount(b []byte) (*Account, error) {
	var a Account
	p := codec.NewReader(b, len(b))
	a.Lamports = p.UnpackUint64(false)
	p.UnpackAddress(false, &a.Owner)
	a.Executable = p.UnpackBool()
	p.UnpackBytes(MaxPermittedDataLength, false, &a.Data)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrTrailingBytes
	}
	return &a, nil
}

// [accountPrefix] + [address]
func AccountKey(addr codec.Address) (k []byte) {
	k = make([]byte, 1+codec.AddressLen)
	k[0] = accountPrefix
	copy(k[1:], addr[:])
	return
}

func innerGetAccount(v []byte, err error) (*Account, error) {
	if errors.Is(err, database.ErrNotFound) {
		return &Account{}, nil
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalAccount(v)
}

// ReadAccount reads [addr] directly from [db].
func ReadAccount(db database.KeyValueReader, addr codec.Address) (*Account, error) {
	return innerGetAccount(db.Get(AccountKey(addr)))
}

// WriteAccount writes [a] directly to [db]. It is meant for genesis and
// tests; transactions go through [Runtime.Execute].
func WriteAccount(db database.KeyValueWriter, addr codec.Address, a *Account) error {
	return db.Put(AccountKey(addr), a.Marshal())
}
