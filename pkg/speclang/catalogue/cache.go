// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package catalogue

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"

	bolt "github.com/coreos/bbolt"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/sha3"
)

var cacheBucket = []byte("catalogues")

// Cache is a persistent store of catalogue snapshots, keyed by the contents of
// the binary they were extracted from.  This avoids repeatedly walking the
// debug information of large binaries.
type Cache struct {
	db *bolt.DB
}

// OpenCache opens (or creates) a cache database at a given path.
func OpenCache(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", path, err)
	}
	//
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	//
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cache %s: %w", path, err)
	}
	//
	return &Cache{db}, nil
}

// Close the underlying database.
func (p *Cache) Close() error {
	return p.db.Close()
}

// CacheKey determines the key for a catalogue extracted from a given binary at a
// given word width.
func CacheKey(contents []byte, xlen uint) []byte {
	var (
		digest = sha3.Sum256(contents)
		key    = make([]byte, len(digest)+8)
	)
	//
	copy(key, digest[:])
	binary.BigEndian.PutUint64(key[len(digest):], uint64(xlen))
	//
	return key
}

// Load a catalogue under a given key.  If there is no such entry, then false
// is returned.
func (p *Cache) Load(key []byte) (*Table, bool, error) {
	var bytes []byte
	//
	err := p.db.View(func(tx *bolt.Tx) error {
		// Bytes are only valid within the transaction.
		if value := tx.Bucket(cacheBucket).Get(key); value != nil {
			bytes = append([]byte{}, value...)
		}
		//
		return nil
	})
	//
	if err != nil {
		return nil, false, err
	} else if bytes == nil {
		return nil, false, nil
	}
	//
	table, err := ParseJSON(bytes)
	//
	return table, err == nil, err
}

// Store a catalogue under a given key, replacing any existing entry.
func (p *Cache) Store(key []byte, table *Table) error {
	bytes, err := table.MarshalJSON()
	if err != nil {
		return err
	}
	//
	return p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put(key, bytes)
	})
}

// ReadDWARF reads the catalogue for a given binary, consulting the cache first
// and storing the result on a miss.
func (p *Cache) ReadDWARF(filename string, xlen uint) (*Table, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	key := CacheKey(contents, xlen)
	//
	if table, ok, err := p.Load(key); err != nil {
		return nil, err
	} else if ok {
		log.Debugf("catalogue cache hit for %s", filename)
		return table, nil
	}
	//
	log.Debugf("catalogue cache miss for %s", filename)
	//
	table, err := ReadDWARF(filename, xlen)
	if err != nil {
		return nil, err
	}
	//
	return table, p.Store(key, table)
}
