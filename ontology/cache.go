// Copyright (c) 2025 The NFDI4Microbiota Consortium and its Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package ontology

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	bolt "go.etcd.io/bbolt"
)

// A cachedResolver wraps another resolver with a persistent bbolt-backed
// lookup cache, so that repeated validations don't hammer the backing
// vocabulary with lookups for the same terms. Only definite outcomes (valid,
// deprecated, unknown) are cached; TermLookupFailed is transient and is never
// written to the cache.
type cachedResolver struct {
	namespace string
	resolver  Resolver
	db        *bolt.DB
}

// Wraps the given resolver for the given namespace in a persistent lookup
// cache stored at cacheFile.
func NewCachedResolver(resolver Resolver, namespace, cacheFile string) (Resolver, error) {
	db, err := bolt.Open(cacheFile, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, &CantOpenCacheError{Namespace: namespace, Message: err.Error()}
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(namespace))
		return err
	})
	if err != nil {
		db.Close()
		return nil, &CantOpenCacheError{Namespace: namespace, Message: err.Error()}
	}
	return &cachedResolver{
		namespace: namespace,
		resolver:  resolver,
		db:        db,
	}, nil
}

func (r *cachedResolver) Resolve(ctx context.Context, code string) TermStatus {
	// check the cache first
	var cached []byte
	r.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(r.namespace)).Get([]byte(code))
		if value != nil {
			cached = append(cached, value...)
		}
		return nil
	})
	if len(cached) == 1 {
		return TermStatus(cached[0])
	}

	status := r.resolver.Resolve(ctx, code)
	if status == TermLookupFailed { // transient, don't cache
		return status
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(r.namespace)).Put([]byte(code), []byte{byte(status)})
	})
	if err != nil {
		// a failed cache write doesn't invalidate the lookup itself
		slog.Warn(fmt.Sprintf("Couldn't cache lookup of %s term %s: %s",
			r.namespace, code, err.Error()))
	}
	return status
}

func (r *cachedResolver) Close() error {
	return r.db.Close()
}
