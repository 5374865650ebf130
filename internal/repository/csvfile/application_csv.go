package csvfile

import (
	"context"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/OnteruYallaiah21/Getiva-app/internal/model"
	"github.com/OnteruYallaiah21/Getiva-app/internal/repository"
)

// timestampLayout matches the format existing collection files already use.
const timestampLayout = "2006-01-02 15:04:05"

var applicationHeader = []string{
	"id", "company", "jobdescription", "filename",
	"timestamp", "download_link", "view_link", "status",
}

// ApplicationCSV is the CSV implementation of repository.ApplicationRepository.
// One file per owner: applications_{username}.csv, newest row first on disk.
type ApplicationCSV struct {
	store *Store
}

// NewApplicationCSV creates a CSV-backed application repository.
func NewApplicationCSV(store *Store) *ApplicationCSV {
	return &ApplicationCSV{store: store}
}

var _ repository.ApplicationRepository = (*ApplicationCSV)(nil)

// List returns a page of the owner's rows, newest first.
func (r *ApplicationCSV) List(ctx context.Context, username string, pq repository.PageQuery) (*repository.PageResult[model.Application], error) {
	lock := r.store.ownerLock(username)
	lock.Lock()
	defer lock.Unlock()

	apps, err := r.readAll(username)
	if err != nil {
		return nil, err
	}

	total := len(apps)
	offset := pq.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if pq.Limit > 0 && offset+pq.Limit < end {
		end = offset + pq.Limit
	}

	return &repository.PageResult[model.Application]{
		Items: apps[offset:end],
		Total: total,
	}, nil
}

// Create appends a row with the owner's next id and rewrites the collection.
func (r *ApplicationCSV) Create(ctx context.Context, username string, app *model.Application) (*model.Application, error) {
	lock := r.store.ownerLock(username)
	lock.Lock()
	defer lock.Unlock()

	apps, err := r.readAll(username)
	if err != nil {
		return nil, err
	}

	nextID := 1
	for _, a := range apps {
		if a.ID >= nextID {
			nextID = a.ID + 1
		}
	}

	stored := *app
	stored.ID = nextID
	stored.Username = username
	apps = append(apps, stored)

	if err := r.writeAll(username, apps); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Update replaces the supplied fields on one row and rewrites the collection.
func (r *ApplicationCSV) Update(ctx context.Context, username string, id int, upd repository.ApplicationUpdate) (*model.Application, error) {
	lock := r.store.ownerLock(username)
	lock.Lock()
	defer lock.Unlock()

	apps, err := r.readAll(username)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range apps {
		if apps[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, repository.ErrNotFound
	}

	app := &apps[idx]
	if upd.Company != nil {
		app.Company = *upd.Company
	}
	if upd.JobDescription != nil {
		app.JobDescription = *upd.JobDescription
	}
	if upd.Status != nil {
		app.Status = *upd.Status
	}
	if upd.File != nil {
		app.Filename = upd.File.Filename
		app.DownloadLink = upd.File.DownloadLink
		app.ViewLink = upd.File.ViewLink
	}
	if !upd.Timestamp.IsZero() {
		app.Timestamp = upd.Timestamp
	}

	updated := *app
	if err := r.writeAll(username, apps); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes one row and rewrites the collection.
func (r *ApplicationCSV) Delete(ctx context.Context, username string, id int) error {
	lock := r.store.ownerLock(username)
	lock.Lock()
	defer lock.Unlock()

	apps, err := r.readAll(username)
	if err != nil {
		return err
	}

	kept := apps[:0]
	found := false
	for _, a := range apps {
		if a.ID == id {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return repository.ErrNotFound
	}
	return r.writeAll(username, kept)
}

// DeleteCollection removes the owner's file entirely.
func (r *ApplicationCSV) DeleteCollection(ctx context.Context, username string) error {
	lock := r.store.ownerLock(username)
	lock.Lock()
	defer lock.Unlock()

	err := os.Remove(r.store.applicationsPath(username))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// readAll loads the owner's collection, filling legacy defaults: rows written
// before the status column default to "applied", rows without a view link
// reuse the download link.
func (r *ApplicationCSV) readAll(username string) ([]model.Application, error) {
	records, err := readRecords(r.store.applicationsPath(username))
	if err != nil {
		return nil, err
	}

	apps := make([]model.Application, 0, len(records))
	for _, rec := range records {
		id, err := strconv.Atoi(field(rec, 0))
		if err != nil {
			continue // skip unparsable rows rather than failing the collection
		}
		ts, _ := time.Parse(timestampLayout, field(rec, 4))
		app := model.Application{
			ID:             id,
			Username:       username,
			Company:        field(rec, 1),
			JobDescription: field(rec, 2),
			Filename:       field(rec, 3),
			Timestamp:      ts,
			DownloadLink:   field(rec, 5),
			ViewLink:       field(rec, 6),
			Status:         field(rec, 7),
		}
		if app.Status == "" {
			app.Status = model.StatusApplied
		}
		if app.ViewLink == "" {
			app.ViewLink = app.DownloadLink
		}
		apps = append(apps, app)
	}

	sortNewestFirst(apps)
	return apps, nil
}

// writeAll rewrites the owner's file, newest row first.
func (r *ApplicationCSV) writeAll(username string, apps []model.Application) error {
	sortNewestFirst(apps)

	records := make([][]string, 0, len(apps))
	for _, a := range apps {
		records = append(records, []string{
			strconv.Itoa(a.ID),
			a.Company,
			a.JobDescription,
			a.Filename,
			a.Timestamp.Format(timestampLayout),
			a.DownloadLink,
			a.ViewLink,
			a.Status,
		})
	}
	return writeRecords(r.store.applicationsPath(username), applicationHeader, records)
}

func sortNewestFirst(apps []model.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		if apps[i].Timestamp.Equal(apps[j].Timestamp) {
			return apps[i].ID > apps[j].ID
		}
		return apps[i].Timestamp.After(apps[j].Timestamp)
	})
}
