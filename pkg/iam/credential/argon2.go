package credential

import (
	"github.com/go-crypt/crypt/algorithm/argon2"
)

// Params are the argon2id cost knobs. They end up in the encoded hash,
// so changing them never invalidates stored credentials.
type Params struct {
	Iterations  int
	MemoryKiB   uint32
	Parallelism int
}

func DefaultParams() Params {
	return Params{
		Iterations:  12,
		MemoryKiB:   65336,
		Parallelism: 1,
	}
}

// Argon2Hasher implements Hasher with argon2id.
type Argon2Hasher struct {
	hasher *argon2.Hasher
	params Params
}

func NewArgon2Hasher(p Params) (*Argon2Hasher, error) {
	h, err := argon2.New(
		argon2.WithVariant(argon2.VariantID),
		argon2.WithT(p.Iterations),
		argon2.WithM(p.MemoryKiB),
		argon2.WithP(p.Parallelism),
	)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeInvalidParams, err).
			WithDetail("iterations", p.Iterations).
			WithDetail("memory_kib", p.MemoryKiB).
			WithDetail("parallelism", p.Parallelism)
	}
	return &Argon2Hasher{hasher: h, params: p}, nil
}

func (h *Argon2Hasher) Params() Params {
	return h.params
}

func (h *Argon2Hasher) Hash(plaintext string) (string, error) {
	digest, err := h.hasher.Hash(plaintext)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeHashFailed, err)
	}
	return digest.Encode(), nil
}

func (h *Argon2Hasher) Verify(plaintext, encoded string) bool {
	if encoded == "" {
		return false
	}
	digest, err := argon2.Decode(encoded)
	if err != nil {
		return false
	}
	ok, err := digest.MatchAdvanced(plaintext)
	return err == nil && ok
}
