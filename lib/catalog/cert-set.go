package catalog

import (
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/fine-structures/orderly/lib/canon"
	"github.com/fine-structures/orderly/lib/graph"
	"github.com/fine-structures/orderly/orderly"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// CertSet is an orderly.Catalog held in an in-memory LSM db.
//
// Each key is a canonical certificate (whose first byte is the graph order) and each value
// is the graph6 encoding of the first graph offered with that certificate.
type CertSet struct {
	mu     sync.Mutex
	ctx    orderly.CatalogContext
	certs  canon.Certifier
	db     *badger.DB
	counts [graph.MaxOrder + 1]int64
}

var _ orderly.Catalog = (*CertSet)(nil)

// OpenCertSet opens a new CertSet and attaches it to ctx (if non-nil).
//
// opts.Oracle must be a canon.Certifier and opts.DbPathName must be empty.
func OpenCertSet(ctx orderly.CatalogContext, opts orderly.CatalogOpts) (*CertSet, error) {
	if opts.DbPathName != "" {
		return nil, errors.Wrapf(orderly.ErrBadCatalogParam, "DbPathName %q: catalogs are in-memory", opts.DbPathName)
	}
	if opts.Oracle == nil {
		opts.Oracle = canon.New()
	}
	certs, ok := opts.Oracle.(canon.Certifier)
	if !ok {
		return nil, errors.Wrap(orderly.ErrBadCatalogParam, "Oracle does not emit certificates")
	}

	dbOpts := badger.DefaultOptions("").WithInMemory(true)
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	cat := &CertSet{
		ctx:   ctx,
		certs: certs,
		db:    db,
	}
	if ctx != nil {
		ctx.AttachCatalog(cat)
	}
	klog.V(2).Infof("opened in-memory catalog")
	return cat, nil
}

// TryAdd adds X if no member is isomorphic to X.
func (cat *CertSet) TryAdd(X *graph.Graph) (bool, error) {
	key := cat.certs.Certificate(X)

	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db == nil {
		return false, orderly.ErrCatalogClosed
	}

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get(key)
	if err == nil {
		return false, nil // already present
	}
	if err != badger.ErrKeyNotFound {
		return false, err
	}
	if err = txn.Set(key, []byte(X.Graph6())); err != nil {
		return false, err
	}
	if err = txn.Commit(); err != nil {
		return false, err
	}
	cat.counts[X.Order()]++
	return true, nil
}

// TryAddGraph is TryAdd that logs a closed catalog and panics on a db failure.
func (cat *CertSet) TryAddGraph(X *graph.Graph) bool {
	added, err := cat.TryAdd(X)
	if err == orderly.ErrCatalogClosed {
		klog.Warningf("graph %s offered to a closed catalog", X.Graph6())
		return false
	}
	if err != nil {
		panic(err)
	}
	return added
}

func (cat *CertSet) NumClasses(forOrder int) int64 {
	if forOrder < 0 || forOrder > graph.MaxOrder {
		return 0
	}
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return cat.counts[forOrder]
}

// Select sends each member selected by sel to onHit in ascending (order, certificate) sequence.
func (cat *CertSet) Select(sel orderly.GraphSelector, onHit orderly.OnGraphHit) {
	cat.mu.Lock()
	db := cat.db
	cat.mu.Unlock()
	if db == nil {
		return
	}

	minOrder := max(sel.MinOrder, 0)
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek([]byte{byte(minOrder)}); it.Valid(); it.Next() {
			item := it.Item()
			if int(item.Key()[0]) > sel.MaxOrder {
				break
			}
			var X *graph.Graph
			err := item.Value(func(val []byte) error {
				var err error
				X, err = graph.FromGraph6(string(val))
				return err
			})
			if err != nil {
				return err
			}
			if sel.SelectsGraph(X) {
				onHit <- X
			}
		}
		return nil
	})
	if err != nil {
		klog.Warningf("catalog select failed: %v", err)
	}
}

func (cat *CertSet) Close() error {
	cat.mu.Lock()
	db := cat.db
	cat.db = nil
	cat.mu.Unlock()

	if db == nil {
		return nil
	}
	if cat.ctx != nil {
		cat.ctx.DetachCatalog(cat)
	}
	return db.Close()
}
