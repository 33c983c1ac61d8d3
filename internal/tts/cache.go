package tts

import (
	"crypto/md5"
	"fmt"
	"sync"
)

// EnrollmentCache maps identity hashes to remote voice handles for the
// lifetime of the process. An entry models "this reference audio is already
// uploaded"; the remote side is durable, so entries are never evicted or
// overwritten, and a failed upload is never cached.
type EnrollmentCache struct {
	mu      sync.Mutex
	handles map[string]string
}

func NewEnrollmentCache() *EnrollmentCache {
	return &EnrollmentCache{handles: make(map[string]string)}
}

// Lookup returns the stored voice handle for an identity hash.
func (ec *EnrollmentCache) Lookup(hash string) (string, bool) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	h, ok := ec.handles[hash]
	return h, ok
}

// Store records a successful enrollment. The first write for a hash wins.
func (ec *EnrollmentCache) Store(hash, handle string) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	if _, ok := ec.handles[hash]; ok {
		return
	}
	ec.handles[hash] = handle
}

// Len returns the number of cached enrollments.
func (ec *EnrollmentCache) Len() int {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return len(ec.handles)
}

// IdentityHash derives the stable enrollment key for an identity. The remote
// service stores this as the voice's custom name, so it must stay md5 to keep
// recognizing voices enrolled by earlier versions.
func IdentityHash(identityKey string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(identityKey)))
}
