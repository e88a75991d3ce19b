package catalog

import (
	"bytes"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/fine-structures/orderly/lib/canon"
	"github.com/fine-structures/orderly/lib/graph"
	"github.com/fine-structures/orderly/orderly"
)

// ClassSetOpts specifies params for a ClassSet
type ClassSetOpts struct {
	Oracle       canon.Oracle // nil denotes canon.New()
	NumTraces    int          // if > 0, walk traces refine the degree fingerprint bucket key
	PairwiseOnly bool         // if set, bucket members are compared with AreIsomorphic even if Oracle is a canon.Certifier
}

// ClassSet keeps the first representative of each isomorphism class offered to it.
//
// Graphs are bucketed by an invariant key (degree fingerprint, optionally walk traces) held in a red-black tree,
// so only graphs sharing a bucket are ever compared.  Within a bucket, graphs are compared by certificate
// hash when the oracle is a canon.Certifier, otherwise pairwise.
//
// A ClassSet is safe for concurrent use; membership tests and inserts are serialized.
type ClassSet struct {
	mu      sync.Mutex
	opts    ClassSetOpts
	certs   canon.Certifier
	buckets *redblacktree.Tree
	graphs  []*graph.Graph
}

var _ orderly.GraphAdder = (*ClassSet)(nil)

type classBucket struct {
	members []*graph.Graph
	hashMap map[uint64][]byte
}

func NewClassSet(opts ClassSetOpts) *ClassSet {
	if opts.Oracle == nil {
		opts.Oracle = canon.New()
	}
	set := &ClassSet{
		opts:    opts,
		buckets: redblacktree.NewWithStringComparator(),
	}
	if !opts.PairwiseOnly {
		set.certs, _ = opts.Oracle.(canon.Certifier)
	}
	return set
}

func (set *ClassSet) bucketKey(X *graph.Graph) string {
	key := X.DegreeSequenceFingerprint()
	if set.opts.NumTraces > 0 {
		var buf [128]byte
		TX := X.Traces(set.opts.NumTraces)
		key += "|" + string(TX.AppendTracesLSM(buf[:0]))
	}
	return key
}

// TryAddGraph adds X unless an isomorphic graph is already a member.
// X is retained (not copied) when added, so the caller must not mutate it afterwards.
func (set *ClassSet) TryAddGraph(X *graph.Graph) bool {
	key := set.bucketKey(X)

	var cert []byte
	if set.certs != nil {
		cert = set.certs.Certificate(X)
	}

	set.mu.Lock()
	defer set.mu.Unlock()

	var bucket *classBucket
	if val, found := set.buckets.Get(key); found {
		bucket = val.(*classBucket)
	} else {
		bucket = &classBucket{}
		if set.certs != nil {
			bucket.hashMap = make(map[uint64][]byte)
		}
		set.buckets.Put(key, bucket)
	}

	if set.certs != nil {
		if !bucket.tryAddCert(cert) {
			return false
		}
	} else {
		for _, Xi := range bucket.members {
			if set.opts.Oracle.AreIsomorphic(Xi, X) {
				return false
			}
		}
	}

	bucket.members = append(bucket.members, X)
	set.graphs = append(set.graphs, X)
	return true
}

// tryAddCert probes forward from the certificate's hash until it finds an equal certificate or an open slot.
func (bucket *classBucket) tryAddCert(cert []byte) bool {
	hash := xxhash.Sum64(cert)

	existing, found := bucket.hashMap[hash]
	for found {
		if bytes.Equal(existing, cert) {
			return false
		}
		hash++
		existing, found = bucket.hashMap[hash]
	}
	bucket.hashMap[hash] = cert
	return true
}

// Contains returns true if a graph isomorphic to X is a member.
func (set *ClassSet) Contains(X *graph.Graph) bool {
	key := set.bucketKey(X)

	var cert []byte
	if set.certs != nil {
		cert = set.certs.Certificate(X)
	}

	set.mu.Lock()
	defer set.mu.Unlock()

	val, found := set.buckets.Get(key)
	if !found {
		return false
	}
	bucket := val.(*classBucket)
	if set.certs != nil {
		hash := xxhash.Sum64(cert)
		for existing, found := bucket.hashMap[hash]; found; existing, found = bucket.hashMap[hash] {
			if bytes.Equal(existing, cert) {
				return true
			}
			hash++
		}
		return false
	}
	for _, Xi := range bucket.members {
		if set.opts.Oracle.AreIsomorphic(Xi, X) {
			return true
		}
	}
	return false
}

// Len returns the number of classes in this set.
func (set *ClassSet) Len() int {
	set.mu.Lock()
	defer set.mu.Unlock()
	return len(set.graphs)
}

// NumBuckets returns the number of distinct bucket keys seen.
func (set *ClassSet) NumBuckets() int {
	set.mu.Lock()
	defer set.mu.Unlock()
	return set.buckets.Size()
}

// Graphs returns the members of this set in the order they were added.
func (set *ClassSet) Graphs() []*graph.Graph {
	set.mu.Lock()
	defer set.mu.Unlock()
	return append([]*graph.Graph(nil), set.graphs...)
}

// ForEachBucket calls fn with each bucket key (in ascending order) and its members.
func (set *ClassSet) ForEachBucket(fn func(key string, members []*graph.Graph)) {
	set.mu.Lock()
	defer set.mu.Unlock()

	it := set.buckets.Iterator()
	for it.Next() {
		bucket := it.Value().(*classBucket)
		fn(it.Key().(string), bucket.members)
	}
}

// Reset removes all members.
func (set *ClassSet) Reset() {
	set.mu.Lock()
	defer set.mu.Unlock()
	set.buckets.Clear()
	set.graphs = nil
}
