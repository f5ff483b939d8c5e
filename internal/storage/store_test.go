package storage

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"wardflow/internal/domain"
	id "wardflow/pkg/domain"
)

type StoreSuite struct {
	suite.Suite
	store *Store
}

func (s *StoreSuite) SetupTest() {
	s.store = New()
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) newWard(name string) domain.Ward {
	now := time.Now()
	return domain.Ward{
		ID:        id.WardID(uuid.New()),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *StoreSuite) TestInsertAndGet() {
	ward := s.newWard("North")
	s.Require().NoError(s.store.Update(func(tx *Tx) error {
		tx.Wards().Insert(ward.ID, ward)
		return nil
	}))

	s.Run("finds inserted row", func() {
		_ = s.store.View(func(tx *Tx) error {
			found, ok := tx.Wards().Get(ward.ID)
			s.True(ok)
			s.Equal("North", found.Name)
			return nil
		})
	})

	s.Run("miss is an absence, not an error", func() {
		_ = s.store.View(func(tx *Tx) error {
			_, ok := tx.Wards().Get(id.WardID(uuid.New()))
			s.False(ok)
			return nil
		})
	})
}

func (s *StoreSuite) TestInsertionOrderIsStable() {
	names := []string{"A", "B", "C", "D"}
	s.Require().NoError(s.store.Update(func(tx *Tx) error {
		for _, n := range names {
			w := s.newWard(n)
			tx.Wards().Insert(w.ID, w)
		}
		return nil
	}))

	_ = s.store.View(func(tx *Tx) error {
		all := tx.Wards().All()
		s.Require().Len(all, 4)
		for i, w := range all {
			s.Equal(names[i], w.Name)
		}
		return nil
	})
}

func (s *StoreSuite) TestReplaceReportsMatchCount() {
	a := s.newWard("Alpha")
	b := s.newWard("Beta")
	s.Require().NoError(s.store.Update(func(tx *Tx) error {
		tx.Wards().Insert(a.ID, a)
		tx.Wards().Insert(b.ID, b)
		return nil
	}))

	s.Run("zero matches is not an error at store level", func() {
		_ = s.store.Update(func(tx *Tx) error {
			n := tx.Wards().Replace(
				func(w domain.Ward) bool { return w.Name == "Gamma" },
				func(w domain.Ward) domain.Ward { return w },
			)
			s.Zero(n)
			return nil
		})
	})

	s.Run("rewrites matching rows", func() {
		_ = s.store.Update(func(tx *Tx) error {
			n := tx.Wards().Replace(
				func(w domain.Ward) bool { return w.ID == a.ID },
				func(w domain.Ward) domain.Ward { w.Name = "Alpha 2"; return w },
			)
			s.Equal(1, n)
			found, _ := tx.Wards().Get(a.ID)
			s.Equal("Alpha 2", found.Name)
			return nil
		})
	})
}

func (s *StoreSuite) TestRemovePreservesOrder() {
	var ids []id.WardID
	s.Require().NoError(s.store.Update(func(tx *Tx) error {
		for _, n := range []string{"A", "B", "C"} {
			w := s.newWard(n)
			tx.Wards().Insert(w.ID, w)
			ids = append(ids, w.ID)
		}
		return nil
	}))

	_ = s.store.Update(func(tx *Tx) error {
		n := tx.Wards().Remove(func(w domain.Ward) bool { return w.ID == ids[1] })
		s.Equal(1, n)
		return nil
	})

	_ = s.store.View(func(tx *Tx) error {
		all := tx.Wards().All()
		s.Require().Len(all, 2)
		s.Equal("A", all[0].Name)
		s.Equal("C", all[1].Name)
		return nil
	})
}

func (s *StoreSuite) TestCompositeValueKey() {
	key := domain.ValueKey{
		PropertyID: id.PropertyID(uuid.New()),
		SubjectID:  id.SubjectID(uuid.New()),
	}
	_ = s.store.Update(func(tx *Tx) error {
		tx.Values().Insert(key, domain.AttachedValue{
			PropertyID: key.PropertyID,
			SubjectID:  key.SubjectID,
			Value:      domain.TextValue("hello"),
		})
		// Same pair again replaces, never duplicates.
		tx.Values().Insert(key, domain.AttachedValue{
			PropertyID: key.PropertyID,
			SubjectID:  key.SubjectID,
			Value:      domain.TextValue("updated"),
		})
		return nil
	})

	_ = s.store.View(func(tx *Tx) error {
		s.Equal(1, tx.Values().Len())
		v, ok := tx.Values().Get(key)
		s.Require().True(ok)
		s.Equal(domain.TextValue("updated"), v.Value)
		return nil
	})
}

// TestConcurrentUpdatesAreSerialized hammers one table from many goroutines;
// the race detector plus the final count catch any lost update.
func (s *StoreSuite) TestConcurrentUpdatesAreSerialized() {
	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := s.newWard("ward")
			_ = s.store.Update(func(tx *Tx) error {
				tx.Wards().Insert(w.ID, w)
				return nil
			})
		}()
	}
	wg.Wait()

	_ = s.store.View(func(tx *Tx) error {
		s.Equal(writers, tx.Wards().Len())
		return nil
	})
}

func TestSeedInstallsFixture(t *testing.T) {
	store := New()
	Seed(store)

	_ = store.View(func(tx *Tx) error {
		if tx.Wards().Len() == 0 {
			t.Fatal("expected seeded wards")
		}
		if tx.Patients().Len() == 0 {
			t.Fatal("expected seeded patients")
		}
		// Every room must reference a seeded ward.
		for _, room := range tx.Rooms().All() {
			if _, ok := tx.Wards().Get(room.WardID); !ok {
				t.Fatalf("room %s references missing ward %s", room.ID, room.WardID)
			}
		}
		// Every assigned patient must reference a seeded bed.
		for _, p := range tx.Patients().All() {
			if p.BedID != nil {
				if _, ok := tx.Beds().Get(*p.BedID); !ok {
					t.Fatalf("patient %s references missing bed %s", p.ID, *p.BedID)
				}
			}
		}
		return nil
	})
}
