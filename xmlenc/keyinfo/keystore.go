// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package keyinfo

import (
	"crypto/rsa"
	"fmt"
	"sync"

	"github.com/readium/xmlenc-core/xmlenc/domxml"
	"github.com/readium/xmlenc-core/xmlenc/keys"
)

// dsig element names this package reads/writes inside a KeyInfo node.
// Kept local rather than imported from the xmlenc package to avoid a
// keyinfo <-> xmlenc import cycle (xmlenc.Context holds a keyinfo.Context).
const (
	elemKeyName         = "KeyName"
	elemRetrievalMethod = "RetrievalMethod"
	attrURI             = "URI"
)

// Store is a concrete, in-memory key manager keyed by KeyName, the
// only KeyInfo child spec.md's scenarios name. It implements both
// Resolver and Writer, mirroring the single-struct provider shape of
// guided-traffic-s3-encryption-proxy's AES/RSA key-encryption providers
// rather than splitting read/write into separate types.
//
// RetrievalMethod is treated as an indirection to another entry in the
// same store (its @URI is looked up as a KeyName) rather than a fetch
// of external key material: resolving a genuinely remote key URI is a
// concern of the caller that owns network policy, not of this generic
// core collaborator.
type Store struct {
	mu   sync.RWMutex
	keys map[string]keys.Key
}

// NewStore returns an empty key store.
func NewStore() *Store {
	return &Store{keys: make(map[string]keys.Key)}
}

// Add registers k under k.Name, overwriting any previous entry with
// that name.
func (s *Store) Add(k keys.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[k.Name] = k
}

// Lookup returns the key registered under name, if any.
func (s *Store) Lookup(name string) (keys.Key, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.keys[name]
	return k, ok
}

// Len reports how many keys are currently registered.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Resolve implements Resolver: reads KeyName (or a RetrievalMethod
// pointing at another registered name) and looks it up, checking the
// result against ctx.Requirement.
func (s *Store) Resolve(node domxml.Node, ctx Context) (keys.Key, bool, error) {
	name, ok := s.nameFromNode(node)
	if !ok {
		return keys.Key{}, false, nil
	}
	k, ok := s.Lookup(name)
	if !ok {
		return keys.Key{}, false, nil
	}
	if !k.Satisfies(ctx.Requirement) {
		return keys.Key{}, false, nil
	}
	if ctx.PublicOnly {
		k = k.AsPublicOnly()
	}
	return k, true, nil
}

func (s *Store) nameFromNode(node domxml.Node) (string, bool) {
	if kn := elementChild(node, elemKeyName); kn != nil {
		if name := kn.Text(); name != "" {
			return name, true
		}
	}
	if rm := elementChild(node, elemRetrievalMethod); rm != nil {
		if uri, ok := rm.Attr(attrURI); ok && uri != "" {
			return uri, true
		}
	}
	return "", false
}

// Write implements Writer: emits a <KeyName> child carrying k.Name.
// Private key material, if any survived into k, is stripped first —
// this is enforced independently of the caller passing a write
// Context, since KeyInfo must never carry private material regardless
// of how it is invoked.
func (s *Store) Write(node domxml.Node, k keys.Key, ctx Context) error {
	if node == nil {
		return fmt.Errorf("keyinfo: nil KeyInfo node")
	}
	public := k.AsPublicOnly()
	if public.Name == "" {
		return fmt.Errorf("keyinfo: key has no Name to write")
	}
	if existing := elementChild(node, elemKeyName); existing != nil {
		existing.SetTextBytes([]byte(public.Name))
		return nil
	}
	el := domxml.Element(node)
	if el == nil {
		return fmt.Errorf("keyinfo: KeyInfo node is not backed by a mutable element")
	}
	child := el.CreateElement(elemKeyName)
	child.SetText(public.Name)
	return nil
}

// AddRSAKeyPair registers a named RSA key pair, convenience used by
// tests and by key-store config loading (internal/config).
func (s *Store) AddRSAKeyPair(name string, priv *rsa.PrivateKey) {
	s.Add(keys.Key{Name: name, RSAPrivate: priv, RSAPublic: &priv.PublicKey})
}

// AddSymmetric registers a named symmetric key.
func (s *Store) AddSymmetric(name string, key []byte) {
	s.Add(keys.Key{Name: name, Symmetric: key})
}
