// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

// AccountStorageOverhead is charged on top of the data length of every account.
const AccountStorageOverhead = 128

const (
	defaultLamportsPerByteYear = 3_480
	defaultExemptionYears      = 2
)

// Rent is the minimum-balance-for-persistence policy: an account that holds
// less than [MinimumBalance] for its data length is rejected at the end of the
// transaction that modified it.
type Rent struct {
	LamportsPerByteYear uint64 `json:"lamportsPerByteYear"`
	ExemptionYears      uint64 `json:"exemptionYears"`
}

func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: defaultLamportsPerByteYear,
		ExemptionYears:      defaultExemptionYears,
	}
}

func (r Rent) MinimumBalance(dataLen int) uint64 {
	return (AccountStorageOverhead + uint64(dataLen)) * r.LamportsPerByteYear * r.ExemptionYears
}

// IsExempt reports whether [lamports] keeps an account of [dataLen] alive.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}
