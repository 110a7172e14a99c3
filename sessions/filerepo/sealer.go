package filerepo

import (
	"crypto/rand"
	"encoding/base64"
	"sync"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	// DefaultScryptN is the scrypt CPU/memory cost for interactive use.
	DefaultScryptN = 1 << 15
)

type sealedBlob struct {
	Salt  string `json:"salt"`
	Nonce string `json:"nonce"`
	Box   string `json:"box"`
}

// Sealer encrypts the session document with NaCl secretbox under a key derived from a
// passphrase with scrypt. The salt of the last document opened or sealed is reused, so a
// key is derived once per document rather than once per write. Every seal draws a fresh
// nonce.
type Sealer struct {
	passphrase []byte
	scryptN    int

	lock sync.Mutex
	salt []byte
	keys map[string]*[keySize]byte
}

func NewSealer(passphrase string) *Sealer {
	return NewSealerWithCost(passphrase, DefaultScryptN)
}

// NewSealerWithCost sets the scrypt N parameter (a power of two above 1).
func NewSealerWithCost(passphrase string, n int) *Sealer {
	return &Sealer{
		passphrase: []byte(passphrase),
		scryptN:    n,
		keys:       make(map[string]*[keySize]byte),
	}
}

func (s *Sealer) Seal(plain []byte) (sealedBlob, error) {
	salt, err := s.currentSalt()
	if err != nil {
		return sealedBlob{}, err
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return sealedBlob{}, errors.Wrapf(err, "generate nonce")
	}
	key, err := s.key(salt)
	if err != nil {
		return sealedBlob{}, err
	}
	box := secretbox.Seal(nil, plain, &nonce, key)
	return sealedBlob{
		Salt:  base64.StdEncoding.EncodeToString(salt),
		Nonce: base64.StdEncoding.EncodeToString(nonce[:]),
		Box:   base64.StdEncoding.EncodeToString(box),
	}, nil
}

// Open returns errors.ErrSealed when the blob was sealed under another passphrase.
func (s *Sealer) Open(blob sealedBlob) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(blob.Salt)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSealed, "bad salt")
	}
	rawNonce, err := base64.StdEncoding.DecodeString(blob.Nonce)
	if err != nil || len(rawNonce) != nonceSize {
		return nil, errors.Wrapf(errors.ErrSealed, "bad nonce")
	}
	box, err := base64.StdEncoding.DecodeString(blob.Box)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSealed, "bad box")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], rawNonce)
	key, err := s.key(salt)
	if err != nil {
		return nil, err
	}
	plain, ok := secretbox.Open(nil, box, &nonce, key)
	if !ok {
		return nil, errors.ErrSealed
	}
	s.lock.Lock()
	s.salt = salt
	s.lock.Unlock()
	return plain, nil
}

// currentSalt returns the salt in use, drawing one on the first seal.
func (s *Sealer) currentSalt() ([]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.salt != nil {
		return s.salt, nil
	}
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrapf(err, "generate salt")
	}
	s.salt = salt
	return salt, nil
}

func (s *Sealer) key(salt []byte) (*[keySize]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if k, ok := s.keys[string(salt)]; ok {
		return k, nil
	}
	derived, err := scrypt.Key(s.passphrase, salt, s.scryptN, 8, 1, keySize)
	if err != nil {
		return nil, errors.Wrapf(err, "derive key")
	}
	var k [keySize]byte
	copy(k[:], derived)
	s.keys[string(salt)] = &k
	return &k, nil
}
