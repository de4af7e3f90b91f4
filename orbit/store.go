package orbit

import (
	"sync"

	"github.com/polyray/symrev/ratmat"
)

// BasisCandidate pairs a registered cobasis with its owning vertex record,
// as returned by invariant-match queries.
type BasisCandidate struct {
	Cob  ratmat.IndexSet
	Data *VertexData
}

// Store is the global registry of orbit representatives. All index
// structures point at shared *VertexData; the store owns no copy of the
// records it is handed.
//
// One RWMutex guards the whole store, following the lock discipline of the
// engine: any one region at a time, never two.
type Store struct {
	mu sync.RWMutex

	gramMode bool

	byCoords map[string]*VertexData
	byCobs   map[string]BasisCandidate

	// insertion-ordered views, for deterministic reporting and for the
	// parallel mirrors' tail copies
	vertexList []*VertexData
	basisList  []BasisCandidate

	// fingerprint multimaps: vertices by their incidence-set Gram key,
	// cobases by the Gram key of the cobasis row set itself
	gramVerts map[string][]*VertexData
	gramBases map[string][]BasisCandidate
}

// NewStore returns an empty store. gramMode controls whether the Gram
// multimaps are consulted; with it off, candidate queries fall back to full
// scans.
func NewStore(gramMode bool) *Store {
	return &Store{
		gramMode:  gramMode,
		byCoords:  make(map[string]*VertexData),
		byCobs:    make(map[string]BasisCandidate),
		gramVerts: make(map[string][]*VertexData),
		gramBases: make(map[string][]BasisCandidate),
	}
}

// AddVertex registers v as a new orbit representative unless a record with
// equal coordinates exists. It returns the stored record and whether the
// submitted one was inserted; a caller losing the race receives the winner
// and must treat its own candidate as a duplicate. Cobases attached to v
// are not registered here; AddBasis carries the cobasis fingerprints.
func (s *Store) AddVertex(v *VertexData) (*VertexData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addVertexLocked(v)
}

func (s *Store) addVertexLocked(v *VertexData) (*VertexData, bool) {
	key := v.Coords.Key()
	if old, ok := s.byCoords[key]; ok {
		return old, false
	}
	s.byCoords[key] = v
	s.vertexList = append(s.vertexList, v)
	if s.gramMode {
		gk := v.Gram.Key()
		s.gramVerts[gk] = append(s.gramVerts[gk], v)
	}

	return v, true
}

// AddBasis attaches cobasis cob to the stored vertex v, indexed under the
// Gram fingerprint key of the cobasis rows. Re-adding is a no-op returning
// false.
func (s *Store) AddBasis(cob ratmat.IndexSet, gramKey string, v *VertexData) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addBasisLocked(cob, gramKey, v)
}

func (s *Store) addBasisLocked(cob ratmat.IndexSet, gramKey string, v *VertexData) bool {
	key := cob.Key()
	if _, ok := s.byCobs[key]; ok {
		return false
	}
	v.Cobs[key] = cob
	e := BasisCandidate{Cob: cob, Data: v}
	s.byCobs[key] = e
	s.basisList = append(s.basisList, e)
	if s.gramMode {
		s.gramBases[gramKey] = append(s.gramBases[gramKey], e)
	}

	return true
}

// LookupVertex returns the record with the given coordinates, if any.
func (s *Store) LookupVertex(coords ratmat.Vec) (*VertexData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byCoords[coords.Key()]

	return v, ok
}

// LookupBasis returns the record owning the given cobasis, if any.
func (s *Store) LookupBasis(cob ratmat.IndexSet) (*VertexData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byCobs[cob.Key()]

	return e.Data, ok
}

// CandidateVerticesBy returns the stored records sharing the given Gram
// fingerprint key; with Gram mode off it returns every stored record, since
// the fingerprint then filters nothing.
func (s *Store) CandidateVerticesBy(gramKey string) []*VertexData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.vertexList
	if s.gramMode {
		src = s.gramVerts[gramKey]
	}
	out := make([]*VertexData, len(src))
	copy(out, src)

	return out
}

// CandidateBasesBy returns the cobases indexed under the given cobasis Gram
// key whose owners carry the given incidence count. With Gram mode off
// every registered cobasis is scanned.
func (s *Store) CandidateBasesBy(gramKey string, incCount int) []BasisCandidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.basisList
	if s.gramMode {
		src = s.gramBases[gramKey]
	}
	out := make([]BasisCandidate, 0, len(src))
	for _, e := range src {
		if e.Data.IncCount() == incCount {
			out = append(out, e)
		}
	}

	return out
}

// Vertices returns the stored vertex records in insertion order.
func (s *Store) Vertices() []*VertexData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*VertexData, len(s.vertexList))
	copy(out, s.vertexList)

	return out
}

// Bases returns the registered cobases with owners, in insertion order.
func (s *Store) Bases() []BasisCandidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]BasisCandidate, len(s.basisList))
	copy(out, s.basisList)

	return out
}

// VertexCount returns the number of vertex orbit representatives.
func (s *Store) VertexCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.vertexList)
}

// BasisCount returns the number of registered cobases.
func (s *Store) BasisCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.basisList)
}

// AppendVertexIfCurrent implements one round of the parallel insertion
// protocol: when the caller's cursor matches the list length its candidate
// is appended; otherwise the caller receives the list tail it has not yet
// mirrored and must retry after merging. Either way the new list length
// comes back.
func (s *Store) AppendVertexIfCurrent(v *VertexData, cursor int) (appended bool, tail []*VertexData, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cursor == len(s.vertexList) {
		_, ok := s.addVertexLocked(v)

		return ok, nil, len(s.vertexList)
	}
	tail = make([]*VertexData, len(s.vertexList)-cursor)
	copy(tail, s.vertexList[cursor:])

	return false, tail, len(s.vertexList)
}

// AppendBasisIfCurrent is the cobasis counterpart of
// AppendVertexIfCurrent.
func (s *Store) AppendBasisIfCurrent(cob ratmat.IndexSet, gramKey string, v *VertexData, cursor int) (appended bool, tail []BasisCandidate, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cursor == len(s.basisList) {
		ok := s.addBasisLocked(cob, gramKey, v)

		return ok, nil, len(s.basisList)
	}
	tail = make([]BasisCandidate, len(s.basisList)-cursor)
	copy(tail, s.basisList[cursor:])

	return false, tail, len(s.basisList)
}
