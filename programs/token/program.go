// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"fmt"

	"github.com/near/borsh-go"
	"go.uber.org/zap"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
)

// Instruction tags share their values with the wire format wallets already
// produce.
const (
	initializeMintTag    uint8 = 0
	initializeAccountTag uint8 = 1
	transferTag          uint8 = 3
	mintToTag            uint8 = 7
)

var (
	ProgramID = codec.MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	_ ledger.Program = (*Program)(nil)
)

// Program keeps fungible and non-fungible balances. A non-fungible token is
// a mint with zero decimals and a supply of one.
type Program struct{}

type initializeMintArgs struct {
	Tag           uint8
	Decimals      uint8
	MintAuthority codec.Address
}

type amountArgs struct {
	Tag    uint8
	Amount uint64
}

func (*Program) ID() codec.Address {
	return ProgramID
}

func (p *Program) Process(ctx context.Context, ic *ledger.InvokeContext, accounts []*ledger.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty token instruction", ledger.ErrInvalidInstructionData)
	}
	switch data[0] {
	case initializeMintTag:
		var args initializeMintArgs
		if err := borsh.Deserialize(&args, data); err != nil {
			return fmt.Errorf("%w: %w", ledger.ErrInvalidInstructionData, err)
		}
		return p.initializeMint(ctx, ic, accounts, &args)
	case initializeAccountTag:
		return p.initializeAccount(ctx, ic, accounts)
	case transferTag:
		var args amountArgs
		if err := borsh.Deserialize(&args, data); err != nil {
			return fmt.Errorf("%w: %w", ledger.ErrInvalidInstructionData, err)
		}
		return p.transfer(ctx, ic, accounts, args.Amount)
	case mintToTag:
		var args amountArgs
		if err := borsh.Deserialize(&args, data); err != nil {
			return fmt.Errorf("%w: %w", ledger.ErrInvalidInstructionData, err)
		}
		return p.mintTo(ctx, ic, accounts, args.Amount)
	default:
		return fmt.Errorf("%w: unknown token instruction %d", ledger.ErrInvalidInstructionData, data[0])
	}
}

func (*Program) initializeMint(ctx context.Context, ic *ledger.InvokeContext, accounts []*ledger.AccountInfo, args *initializeMintArgs) error {
	it := ledger.NewAccountIter(accounts)
	mintInfo, err := it.Next()
	if err != nil {
		return err
	}
	if err := nextRentSysvar(it); err != nil {
		return err
	}
	mint, err := loadMint(ctx, ic, mintInfo)
	if err != nil {
		return err
	}
	if mint.IsInitialized {
		return fmt.Errorf("%w: mint %s", ErrAlreadyInitialized, mintInfo.Key)
	}
	mint.MintAuthority = args.MintAuthority
	mint.Decimals = args.Decimals
	mint.IsInitialized = true
	return ic.SetData(ctx, mintInfo, mint.Marshal())
}

func (*Program) initializeAccount(ctx context.Context, ic *ledger.InvokeContext, accounts []*ledger.AccountInfo) error {
	it := ledger.NewAccountIter(accounts)
	accountInfo, err := it.Next()
	if err != nil {
		return err
	}
	mintInfo, err := it.Next()
	if err != nil {
		return err
	}
	ownerInfo, err := it.Next()
	if err != nil {
		return err
	}
	if err := nextRentSysvar(it); err != nil {
		return err
	}
	account, err := loadAccount(ctx, ic, accountInfo)
	if err != nil {
		return err
	}
	if account.IsInitialized {
		return fmt.Errorf("%w: token account %s", ErrAlreadyInitialized, accountInfo.Key)
	}
	mint, err := loadMint(ctx, ic, mintInfo)
	if err != nil {
		return err
	}
	if !mint.IsInitialized {
		return fmt.Errorf("%w: mint %s", ErrUninitialized, mintInfo.Key)
	}
	account.Mint = mintInfo.Key
	account.Owner = ownerInfo.Key
	account.IsInitialized = true
	return ic.SetData(ctx, accountInfo, account.Marshal())
}

func (*Program) transfer(ctx context.Context, ic *ledger.InvokeContext, accounts []*ledger.AccountInfo, amount uint64) error {
	it := ledger.NewAccountIter(accounts)
	sourceInfo, err := it.Next()
	if err != nil {
		return err
	}
	destInfo, err := it.Next()
	if err != nil {
		return err
	}
	authorityInfo, err := it.Next()
	if err != nil {
		return err
	}
	source, err := loadInitializedAccount(ctx, ic, sourceInfo)
	if err != nil {
		return err
	}
	if source.Owner != authorityInfo.Key {
		return fmt.Errorf("%w: %s is held by %s", ErrOwnerMismatch, sourceInfo.Key, source.Owner)
	}
	if !authorityInfo.IsSigner {
		return fmt.Errorf("%w: %s", ledger.ErrMissingRequiredSignature, authorityInfo.Key)
	}
	if source.Amount < amount {
		return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientAmount, sourceInfo.Key, source.Amount, amount)
	}
	source.Amount -= amount
	if err := ic.SetData(ctx, sourceInfo, source.Marshal()); err != nil {
		return err
	}

	// Reload in case [source] and [dest] are the same account.
	dest, err := loadInitializedAccount(ctx, ic, destInfo)
	if err != nil {
		return err
	}
	if dest.Mint != source.Mint {
		return fmt.Errorf("%w: %s holds %s, not %s", ErrMintMismatch, destInfo.Key, dest.Mint, source.Mint)
	}
	if dest.Amount+amount < dest.Amount {
		return ledger.ErrArithmeticOverflow
	}
	dest.Amount += amount
	ic.Log().Debug("transferred tokens",
		zap.Stringer("mint", source.Mint),
		zap.Stringer("from", sourceInfo.Key),
		zap.Stringer("to", destInfo.Key),
		zap.Uint64("amount", amount),
	)
	return ic.SetData(ctx, destInfo, dest.Marshal())
}

func (*Program) mintTo(ctx context.Context, ic *ledger.InvokeContext, accounts []*ledger.AccountInfo, amount uint64) error {
	it := ledger.NewAccountIter(accounts)
	mintInfo, err := it.Next()
	if err != nil {
		return err
	}
	destInfo, err := it.Next()
	if err != nil {
		return err
	}
	authorityInfo, err := it.Next()
	if err != nil {
		return err
	}
	mint, err := loadMint(ctx, ic, mintInfo)
	if err != nil {
		return err
	}
	if !mint.IsInitialized {
		return fmt.Errorf("%w: mint %s", ErrUninitialized, mintInfo.Key)
	}
	if mint.MintAuthority != authorityInfo.Key {
		return fmt.Errorf("%w: mint authority is %s", ErrOwnerMismatch, mint.MintAuthority)
	}
	if !authorityInfo.IsSigner {
		return fmt.Errorf("%w: %s", ledger.ErrMissingRequiredSignature, authorityInfo.Key)
	}
	dest, err := loadInitializedAccount(ctx, ic, destInfo)
	if err != nil {
		return err
	}
	if dest.Mint != mintInfo.Key {
		return fmt.Errorf("%w: %s holds %s", ErrMintMismatch, destInfo.Key, dest.Mint)
	}
	if mint.Supply+amount < mint.Supply {
		return ledger.ErrArithmeticOverflow
	}
	mint.Supply += amount
	dest.Amount += amount
	if err := ic.SetData(ctx, mintInfo, mint.Marshal()); err != nil {
		return err
	}
	return ic.SetData(ctx, destInfo, dest.Marshal())
}

func nextRentSysvar(it *ledger.AccountIter) error {
	info, err := it.Next()
	if err != nil {
		return err
	}
	if info.Key != ledger.RentSysvarID {
		return fmt.Errorf("%w: expected rent sysvar, got %s", ledger.ErrInvalidAccountData, info.Key)
	}
	return nil
}

func loadOwned(ctx context.Context, ic *ledger.InvokeContext, info *ledger.AccountInfo) ([]byte, error) {
	a, err := ic.GetAccount(ctx, info.Key)
	if err != nil {
		return nil, err
	}
	if a.Owner != ProgramID {
		return nil, fmt.Errorf("%w: %s is owned by %s", ledger.ErrIllegalOwner, info.Key, a.Owner)
	}
	return a.Data, nil
}

func loadMint(ctx context.Context, ic *ledger.InvokeContext, info *ledger.AccountInfo) (*Mint, error) {
	b, err := loadOwned(ctx, ic, info)
	if err != nil {
		return nil, err
	}
	return UnmarshalMint(b)
}

func loadAccount(ctx context.Context, ic *ledger.InvokeContext, info *ledger.AccountInfo) (*Account, error) {
	b, err := loadOwned(ctx, ic, info)
	if err != nil {
		return nil, err
	}
	return UnmarshalAccount(b)
}

func loadInitializedAccount(ctx context.Context, ic *ledger.InvokeContext, info *ledger.AccountInfo) (*Account, error) {
	a, err := loadAccount(ctx, ic, info)
	if err != nil {
		return nil, err
	}
	if !a.IsInitialized {
		return nil, fmt.Errorf("%w: token account %s", ErrUninitialized, info.Key)
	}
	return a, nil
}
