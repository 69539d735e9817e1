package roastdb

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	applog "github.com/janisto/roastlog/internal/platform/logging"
	"github.com/janisto/roastlog/internal/roast"
)

const roastsCollection = "roasts"

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, roast.ErrNotFound):
		return "not_found"
	default:
		return "internal_error"
	}
}

// pointDoc maps one temperature sample to its Firestore representation.
type pointDoc struct {
	Time        int       `firestore:"time"`
	Temperature float64   `firestore:"temperature"`
	Timestamp   time.Time `firestore:"timestamp"`
}

// weightDoc is stored as a nested map and always written wholesale.
type weightDoc struct {
	Green   float64 `firestore:"green"`
	Roasted float64 `firestore:"roasted"`
}

// roastDoc maps to the Firestore document structure.
type roastDoc struct {
	OwnerUID       string     `firestore:"owner_uid"`
	Name           string     `firestore:"name"`
	Bean           string     `firestore:"bean"`
	RoastLevel     string     `firestore:"roast_level"`
	Notes          string     `firestore:"notes"`
	FlavorNotes    string     `firestore:"flavor_notes"`
	StartTime      time.Time  `firestore:"start_time"`
	EndTime        time.Time  `firestore:"end_time"`
	Duration       int        `firestore:"duration_seconds"`
	TemperatureLog []pointDoc `firestore:"temperature_log"`
	IsFavorite     bool       `firestore:"is_favorite"`
	Weight         weightDoc  `firestore:"weight"`
}

func toDoc(uid string, p roast.Profile) roastDoc {
	points := make([]pointDoc, len(p.TemperatureLog))
	for i, tp := range p.TemperatureLog {
		points[i] = pointDoc{Time: tp.Time, Temperature: tp.Temperature, Timestamp: tp.Timestamp.UTC()}
	}
	return roastDoc{
		OwnerUID:       uid,
		Name:           p.Name,
		Bean:           p.Bean,
		RoastLevel:     string(p.RoastLevel),
		Notes:          p.Notes,
		FlavorNotes:    p.FlavorNotes,
		StartTime:      p.StartTime.UTC(),
		EndTime:        p.EndTime.UTC(),
		Duration:       p.Duration,
		TemperatureLog: points,
		IsFavorite:     p.IsFavorite,
		Weight:         weightDoc{Green: p.Weight.Green, Roasted: p.Weight.Roasted},
	}
}

func (d roastDoc) toProfile(id string) roast.Profile {
	points := make([]roast.TemperaturePoint, len(d.TemperatureLog))
	for i, tp := range d.TemperatureLog {
		points[i] = roast.TemperaturePoint{Time: tp.Time, Temperature: tp.Temperature, Timestamp: tp.Timestamp.UTC()}
	}
	return roast.Profile{
		ID:             id,
		Name:           d.Name,
		Bean:           d.Bean,
		RoastLevel:     roast.Level(d.RoastLevel),
		Notes:          d.Notes,
		FlavorNotes:    d.FlavorNotes,
		StartTime:      d.StartTime.UTC(),
		EndTime:        d.EndTime.UTC(),
		Duration:       d.Duration,
		TemperatureLog: points,
		IsFavorite:     d.IsFavorite,
		Weight:         roast.Weight{Green: d.Weight.Green, Roasted: d.Weight.Roasted},
	}
}

// FirestoreStore implements roast.Backend on a Firestore collection.
// Every document carries the owning uid; reads and writes verify it so
// a caller can never touch another identity's roasts. Missing and
// foreign documents are indistinguishable to the caller.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Insert adds a new roast document and returns its generated id.
func (s *FirestoreStore) Insert(ctx context.Context, uid string, p roast.Profile) (string, error) {
	ref, _, err := s.client.Collection(roastsCollection).Add(ctx, toDoc(uid, p))
	if err != nil {
		applog.LogAuditEvent(ctx, "create", uid, "roast", "", "failure",
			map[string]any{"error": categorizeError(err)})
		return "", err
	}
	return ref.ID, nil
}

// Patch applies a partial update inside a transaction: the document
// must exist and belong to uid. Weight, when present, replaces the
// stored map wholesale.
func (s *FirestoreStore) Patch(ctx context.Context, uid, id string, params roast.UpdateParams) error {
	docRef := s.client.Collection(roastsCollection).Doc(id)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return roast.ErrNotFound
			}
			return err
		}
		var rd roastDoc
		if err := doc.DataTo(&rd); err != nil {
			return err
		}
		if rd.OwnerUID != uid {
			return roast.ErrNotFound
		}
		updates := patchUpdates(params)
		if len(updates) == 0 {
			return nil
		}
		return tx.Update(docRef, updates)
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "update", uid, "roast", id, "failure",
			map[string]any{"error": categorizeError(err)})
		return err
	}
	return nil
}

func patchUpdates(params roast.UpdateParams) []firestore.Update {
	var updates []firestore.Update
	if params.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *params.Name})
	}
	if params.Bean != nil {
		updates = append(updates, firestore.Update{Path: "bean", Value: *params.Bean})
	}
	if params.RoastLevel != nil {
		updates = append(updates, firestore.Update{Path: "roast_level", Value: string(*params.RoastLevel)})
	}
	if params.Notes != nil {
		updates = append(updates, firestore.Update{Path: "notes", Value: *params.Notes})
	}
	if params.FlavorNotes != nil {
		updates = append(updates, firestore.Update{Path: "flavor_notes", Value: *params.FlavorNotes})
	}
	if params.IsFavorite != nil {
		updates = append(updates, firestore.Update{Path: "is_favorite", Value: *params.IsFavorite})
	}
	if params.Weight != nil {
		updates = append(updates, firestore.Update{
			Path:  "weight",
			Value: weightDoc{Green: params.Weight.Green, Roasted: params.Weight.Roasted},
		})
	}
	if params.EndTime != nil {
		updates = append(updates, firestore.Update{Path: "end_time", Value: params.EndTime.UTC()})
	}
	return updates
}

// Remove deletes a roast document, verifying ownership in a transaction.
func (s *FirestoreStore) Remove(ctx context.Context, uid, id string) error {
	docRef := s.client.Collection(roastsCollection).Doc(id)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return roast.ErrNotFound
			}
			return err
		}
		var rd roastDoc
		if err := doc.DataTo(&rd); err != nil {
			return err
		}
		if rd.OwnerUID != uid {
			return roast.ErrNotFound
		}
		return tx.Delete(docRef)
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "delete", uid, "roast", id, "failure",
			map[string]any{"error": categorizeError(err)})
		return err
	}
	return nil
}

// Subscribe opens a snapshot listener on the identity's ordered roast
// query. Each delivered query snapshot is materialized into a full
// collection and handed to fn; iterator failures are handed to fn as
// errors. The returned cancel stops the listener and is safe to call
// more than once.
func (s *FirestoreStore) Subscribe(ctx context.Context, uid string, fn func(roast.Snapshot, error)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	it := s.client.Collection(roastsCollection).
		Where("owner_uid", "==", uid).
		OrderBy("start_time", firestore.Desc).
		Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			qs, err := it.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
					return
				}
				fn(nil, err)
				return
			}
			docs, err := qs.Documents.GetAll()
			if err != nil {
				fn(nil, err)
				continue
			}
			snap := make(roast.Snapshot, 0, len(docs))
			for _, doc := range docs {
				var rd roastDoc
				if err := doc.DataTo(&rd); err != nil {
					fn(nil, err)
					snap = nil
					break
				}
				snap = append(snap, rd.toProfile(doc.Ref.ID))
			}
			if snap != nil {
				fn(snap, nil)
			}
		}
	}()

	return cancel, nil
}

// Compile-time interface check
var _ roast.Backend = (*FirestoreStore)(nil)
