// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/consts"
	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
	"github.com/kamda-cyrial/marketplace/state"
)

const (
	MaxInstructions = 64
	MaxSignatures   = 32
)

type Signature struct {
	Signer    ed25519.PublicKey `json:"signer"`
	Signature ed25519.Signature `json:"signature"`
}

// Transaction is an ordered list of instructions executed atomically: either
// every instruction succeeds and all changes are persisted, or nothing is.
type Transaction struct {
	Instructions []*Instruction `json:"instructions"`
	Signatures   []*Signature   `json:"signatures"`
}

func NewTransaction(instructions ...*Instruction) *Transaction {
	return &Transaction{Instructions: instructions}
}

// Message returns the bytes covered by signatures.
func (t *Transaction) Message() []byte {
	size := consts.IntLen
	for _, ix := range t.Instructions {
		size += ix.Size()
	}
	p := codec.NewWriter(size, consts.NetworkLimit)
	p.PackCount(len(t.Instructions))
	for _, ix := range t.Instructions {
		ix.Marshal(p)
	}
	return p.Bytes()
}

// Bytes encodes the message followed by the signatures.
func (t *Transaction) Bytes() []byte {
	msg := t.Message()
	size := len(msg) + consts.IntLen + len(t.Signatures)*(ed25519.PublicKeyLen+ed25519.SignatureLen)
	p := codec.NewWriter(size, consts.NetworkLimit)
	p.PackFixedBytes(msg)
	p.PackCount(len(t.Signatures))
	for _, sig := range t.Signatures {
		p.PackFixedBytes(sig.Signer[:])
		p.PackFixedBytes(sig.Signature[:])
	}
	return p.Bytes()
}

// ID is the hash of [Bytes].
func (t *Transaction) ID() ids.ID {
	return hashing.ComputeHash256Array(t.Bytes())
}

func UnmarshalTransaction(b []byte) (*Transaction, error) {
	p := codec.NewReader(b, consts.NetworkLimit)
	t := &Transaction{Instructions: make([]*Instruction, p.UnpackCount(MaxInstructions))}
	for i := range t.Instructions {
		t.Instructions[i] = unmarshalInstruction(p)
	}
	t.Signatures = make([]*Signature, p.UnpackCount(MaxSignatures))
	for i := range t.Signatures {
		sig := &Signature{}
		signer, signature := sig.Signer[:], sig.Signature[:]
		p.UnpackFixedBytes(ed25519.PublicKeyLen, &signer)
		p.UnpackFixedBytes(ed25519.SignatureLen, &signature)
		t.Signatures[i] = sig
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrTrailingBytes
	}
	return t, nil
}

// Sign appends a signature of every key in [keys].
func (t *Transaction) Sign(keys ...ed25519.PrivateKey) *Transaction {
	msg := t.Message()
	for _, k := range keys {
		t.Signatures = append(t.Signatures, &Signature{
			Signer:    k.PublicKey(),
			Signature: ed25519.Sign(msg, k),
		})
	}
	return t
}

// Verify checks all signatures and returns the set of signing addresses.
func (t *Transaction) Verify() (set.Set[codec.Address], error) {
	if len(t.Instructions) == 0 {
		return nil, ErrNoInstructions
	}
	msg := t.Message()
	signers := set.NewSet[codec.Address](len(t.Signatures))
	if len(t.Signatures) >= ed25519.MinBatchSize {
		batch := ed25519.NewBatch(len(t.Signatures))
		for _, sig := range t.Signatures {
			batch.Add(msg, sig.Signer, sig.Signature)
			signers.Add(sig.Signer.Address())
		}
		if !batch.Verify() {
			return nil, ErrInvalidSignature
		}
		return signers, nil
	}
	for _, sig := range t.Signatures {
		if !ed25519.Verify(msg, sig.Signer, sig.Signature) {
			return nil, ErrInvalidSignature
		}
		signers.Add(sig.Signer.Address())
	}
	return signers, nil
}

// StateKeys returns every storage key the transaction may touch. Program
// accounts are declared read-only so that cross-program invocations can be
// checked against the declaration.
func (t *Transaction) StateKeys() state.Keys {
	keys := make(state.Keys)
	for _, ix := range t.Instructions {
		keys.Add(string(AccountKey(ix.ProgramID)), state.Read)
		for _, meta := range ix.Accounts {
			perm := state.Read
			if meta.IsWritable {
				perm = state.Write
			}
			keys.Add(string(AccountKey(meta.Address)), perm)
		}
	}
	return keys
}
