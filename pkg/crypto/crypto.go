// Package crypto signs and verifies ledger cells with Ed25519. Signatures
// cover the cell id, which already seals header, fact, and anchor.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/adjudilane/verdict/pkg/cell"
)

// Signer signs ledger cells under a stable signer identity.
type Signer struct {
	privKey  ed25519.PrivateKey
	pubKey   ed25519.PublicKey
	SignerID string
}

// NewSigner generates a fresh Ed25519 keypair.
func NewSigner(signerID string) (*Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("crypto: key generation failed: %w", err)
	}
	return &Signer{privKey: priv, pubKey: pub, SignerID: signerID}, nil
}

// NewSignerFromKey wraps an existing private key.
func NewSignerFromKey(priv ed25519.PrivateKey, signerID string) *Signer {
	return &Signer{
		privKey:  priv,
		pubKey:   priv.Public().(ed25519.PublicKey),
		SignerID: signerID,
	}
}

// PublicKey returns the hex-encoded public key.
func (s *Signer) PublicKey() string {
	return hex.EncodeToString(s.pubKey)
}

// Sign signs raw bytes and returns the hex signature.
func (s *Signer) Sign(data []byte) string {
	return hex.EncodeToString(ed25519.Sign(s.privKey, data))
}

// SignCell attaches a proof to the cell: the signer id plus an Ed25519
// signature over the cell id.
func (s *Signer) SignCell(c *cell.Cell) error {
	if c.ID == "" {
		return fmt.Errorf("crypto: cannot sign an unsealed cell")
	}
	c.Proof = &cell.Proof{
		SignerID:  s.SignerID,
		Signature: s.Sign([]byte(c.ID)),
	}
	return nil
}

// Verify checks a hex signature over data against a hex public key.
// Malformed hex or wrong lengths are format errors; a well-formed
// signature that does not verify returns (false, nil).
func Verify(pubKeyHex, sigHex string, data []byte) (bool, error) {
	pubKey, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return false, fmt.Errorf("crypto: invalid public key hex: %w", err)
	}
	if len(pubKey) != ed25519.PublicKeySize {
		return false, fmt.Errorf("crypto: invalid public key size %d", len(pubKey))
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false, fmt.Errorf("crypto: invalid signature hex: %w", err)
	}
	if len(sig) != ed25519.SignatureSize {
		return false, fmt.Errorf("crypto: invalid signature size %d", len(sig))
	}
	return ed25519.Verify(ed25519.PublicKey(pubKey), data, sig), nil
}

// VerifyCell checks the cell's proof signature over its id. A cell with
// no proof is a format error; a failing signature is (false, nil).
func VerifyCell(c *cell.Cell, pubKeyHex string) (bool, error) {
	if c.Proof == nil || c.Proof.Signature == "" {
		return false, fmt.Errorf("crypto: cell %s carries no proof", c.ID)
	}
	if !c.VerifyIntegrity() {
		return false, nil
	}
	return Verify(pubKeyHex, c.Proof.Signature, []byte(c.ID))
}
