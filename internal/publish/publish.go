// Package publish uploads rendered models to a filestore.Store so code
// generators elsewhere can fetch a known snapshot.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/koustreak/relgraph/internal/detect"
	"github.com/koustreak/relgraph/internal/errs"
	"github.com/koustreak/relgraph/internal/filestore"
	"github.com/koustreak/relgraph/internal/render"
)

const timeLayout = "20060102T150405Z"

// Snapshot locates one published model.
type Snapshot struct {
	Bucket string
	Object *filestore.ObjectInfo
}

// Key builds "<prefix>/<name>/<UTC timestamp>-<id>.<ext>". Keys sort by time
// within one name.
func Key(prefix, name string, now time.Time, id uuid.UUID, f render.Format) string {
	file := fmt.Sprintf("%s-%s.%s", now.UTC().Format(timeLayout), id, f)
	return path.Join(prefix, name, file)
}

// Publisher writes snapshots into one bucket.
type Publisher struct {
	store  filestore.Store
	bucket string
	prefix string
	now    func() time.Time
	newID  func() uuid.UUID
}

// New returns a Publisher for bucket. prefix may be empty.
func New(store filestore.Store, bucket, prefix string) *Publisher {
	return &Publisher{
		store:  store,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
		newID:  uuid.New,
	}
}

// Publish renders tables in format f and uploads them under name.
func (p *Publisher) Publish(ctx context.Context, name string, tables []detect.TableDef, f render.Format) (*Snapshot, error) {
	if name == "" || strings.Contains(name, "/") {
		return nil, errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("invalid snapshot name %q", name))
	}
	if f == render.FormatTable {
		return nil, errs.New(errs.ErrKindInvalidInput, "snapshots must be json or yaml")
	}

	var buf bytes.Buffer
	if err := render.Write(&buf, tables, f); err != nil {
		return nil, err
	}

	if err := p.store.EnsureBucket(ctx, p.bucket); err != nil {
		return nil, err
	}

	key := Key(p.prefix, name, p.now(), p.newID(), f)
	info, err := p.store.PutObject(ctx, p.bucket, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), f.ContentType())
	if err != nil {
		return nil, err
	}
	return &Snapshot{Bucket: p.bucket, Object: info}, nil
}

// List returns the snapshots published under name, oldest first. A positive
// limit stops after that many.
func (p *Publisher) List(ctx context.Context, name string, limit int) ([]filestore.ObjectInfo, error) {
	if limit < 0 {
		return nil, errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("invalid limit %d", limit))
	}
	objs, err := p.store.ListObjects(ctx, p.bucket, filestore.ListOptions{
		Prefix:    path.Join(p.prefix, name) + "/",
		Recursive: true,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	out := objs[:0]
	for _, o := range objs {
		if !o.IsDir {
			out = append(out, o)
		}
	}
	return out, nil
}

// PresignURL returns a download link for a published snapshot.
func (p *Publisher) PresignURL(ctx context.Context, s *Snapshot, ttl time.Duration) (string, error) {
	return p.store.PresignGetURL(ctx, s.Bucket, s.Object.Key, ttl)
}
