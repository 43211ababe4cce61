// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metadata

import (
	"context"
	"fmt"

	"github.com/near/borsh-go"
	"go.uber.org/zap"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/consts"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/pda"
	"github.com/kamda-cyrial/marketplace/programs/token"
)

const (
	createMetadataTag uint8 = 0
	signMetadataTag   uint8 = 7
)

var (
	ProgramID = codec.MustParseAddress("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

	prefix = []byte("metadata")

	_ ledger.Program = (*Program)(nil)
)

// Program is the registry of NFT metadata: one record per mint, holding the
// creator list and the verification flag of every creator.
type Program struct{}

type createMetadataArgs struct {
	Tag       uint8
	Data      Data
	IsMutable bool
}

func (*Program) ID() codec.Address {
	return ProgramID
}

func seeds(mint codec.Address) [][]byte {
	return [][]byte{prefix, ProgramID[:], mint[:]}
}

// Address returns the metadata record address of [mint].
func Address(mint codec.Address) (codec.Address, error) {
	auth, err := pda.Find(ProgramID, seeds(mint)...)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return auth.Address(), nil
}

func (p *Program) Process(ctx context.Context, ic *ledger.InvokeContext, accounts []*ledger.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty metadata instruction", ledger.ErrInvalidInstructionData)
	}
	switch data[0] {
	case createMetadataTag:
		var args createMetadataArgs
		if err := borsh.Deserialize(&args, data); err != nil {
			return fmt.Errorf("%w: %w", ledger.ErrInvalidInstructionData, err)
		}
		args.Data.normalize(data[consts.ByteLen:])
		return p.createMetadata(ctx, ic, accounts, &args)
	case signMetadataTag:
		return p.signMetadata(ctx, ic, accounts)
	default:
		return fmt.Errorf("%w: unknown metadata instruction %d", ledger.ErrInvalidInstructionData, data[0])
	}
}

// Accounts: [metadata(writable), mint, mint-authority(signer),
// payer(signer, writable), update-authority, system-program, rent-sysvar].
func (*Program) createMetadata(ctx context.Context, ic *ledger.InvokeContext, accounts []*ledger.AccountInfo, args *createMetadataArgs) error {
	it := ledger.NewAccountIter(accounts)
	infos := make([]*ledger.AccountInfo, 7)
	for i := range infos {
		info, err := it.Next()
		if err != nil {
			return err
		}
		infos[i] = info
	}
	metadataInfo, mintInfo, mintAuthority, payer, updateAuthority := infos[0], infos[1], infos[2], infos[3], infos[4]
	if infos[6].Key != ledger.RentSysvarID {
		return fmt.Errorf("%w: expected rent sysvar, got %s", ledger.ErrInvalidAccountData, infos[6].Key)
	}
	if err := args.Data.validate(); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrInvalidInstructionData, err)
	}

	auth, err := pda.Verify(metadataInfo.Key, ProgramID, seeds(mintInfo.Key)...)
	if err != nil {
		return fmt.Errorf("%w: metadata %s: %w", ledger.ErrInvalidAccountData, metadataInfo.Key, err)
	}
	mintAccount, err := ic.GetAccount(ctx, mintInfo.Key)
	if err != nil {
		return err
	}
	if mintAccount.Owner != token.ProgramID {
		return fmt.Errorf("%w: mint %s is owned by %s", ledger.ErrIllegalOwner, mintInfo.Key, mintAccount.Owner)
	}
	mint, err := token.UnmarshalMint(mintAccount.Data)
	if err != nil {
		return err
	}
	if !mint.IsInitialized || mint.MintAuthority != mintAuthority.Key {
		return fmt.Errorf("%w: %s", ErrMintAuthorityMismatch, mintAuthority.Key)
	}
	if !mintAuthority.IsSigner {
		return fmt.Errorf("%w: %s", ledger.ErrMissingRequiredSignature, mintAuthority.Key)
	}

	// Only the update authority can vouch for itself at creation. Every
	// other creator signs later through SignMetadata.
	if args.Data.Creators != nil {
		for _, c := range *args.Data.Creators {
			if c.Verified && (c.Address != updateAuthority.Key || !updateAuthority.IsSigner) {
				return fmt.Errorf("%w: %s", ErrCannotVerifyCreator, c.Address)
			}
		}
	}

	create := ledger.NewCreateAccountInstruction(
		payer.Key,
		metadataInfo.Key,
		ic.Rent().MinimumBalance(MaxMetadataLen),
		MaxMetadataLen,
		ProgramID,
	)
	if err := ic.InvokeSigned(ctx, create, auth); err != nil {
		return err
	}
	record := Metadata{
		Key:             KeyMetadataV1,
		UpdateAuthority: updateAuthority.Key,
		Mint:            mintInfo.Key,
		Data:            args.Data,
		IsMutable:       args.IsMutable,
	}
	return ic.SetData(ctx, metadataInfo, record.Marshal())
}

// Accounts: [metadata(writable), creator(signer)].
func (*Program) signMetadata(ctx context.Context, ic *ledger.InvokeContext, accounts []*ledger.AccountInfo) error {
	it := ledger.NewAccountIter(accounts)
	metadataInfo, err := it.Next()
	if err != nil {
		return err
	}
	creatorInfo, err := it.Next()
	if err != nil {
		return err
	}
	if !creatorInfo.IsSigner {
		return fmt.Errorf("%w: %s", ledger.ErrMissingRequiredSignature, creatorInfo.Key)
	}
	a, err := ic.GetAccount(ctx, metadataInfo.Key)
	if err != nil {
		return err
	}
	if a.Owner != ProgramID {
		return fmt.Errorf("%w: %s is owned by %s", ledger.ErrIllegalOwner, metadataInfo.Key, a.Owner)
	}
	record, err := UnmarshalMetadata(a.Data)
	if err != nil {
		return err
	}
	c, ok := record.Data.Creator(creatorInfo.Key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCreatorNotFound, creatorInfo.Key)
	}
	c.Verified = true
	ic.Log().Debug("creator verified",
		zap.Stringer("mint", record.Mint),
		zap.Stringer("creator", creatorInfo.Key),
	)
	return ic.SetData(ctx, metadataInfo, record.Marshal())
}
