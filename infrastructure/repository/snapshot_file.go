package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

var snapshotFileRe = regexp.MustCompile(`^parsed_(\d{4}-\d{2}-\d{2})\.json$`)

type fileSnapshotRepository struct {
	dir string
	now func() time.Time
	mu  sync.Mutex // serializa Promote
}

// NewFileSnapshotRepository grava um arquivo parsed_YYYY-MM-DD.json por data e o ponteiro "latest" em dir
func NewFileSnapshotRepository(dir string) (SnapshotRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório de snapshots: %w", err)
	}

	return &fileSnapshotRepository{
		dir: dir,
		now: time.Now,
	}, nil
}

func (r *fileSnapshotRepository) snapshotPath(date string) string {
	return filepath.Join(r.dir, "parsed_"+date+".json")
}

// Put grava o snapshot em um arquivo temporário e o publica com link(2),
// que falha se o nome final já existir
func (r *fileSnapshotRepository) Put(ctx context.Context, date time.Time, rows []domain.PriceRow) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot, err := domain.NewSnapshot(date, rows, r.now())
	if err != nil {
		return nil, err
	}

	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return nil, err
	}

	key := snapshot.DateString()
	finalPath := r.snapshotPath(key)

	if _, err := os.Stat(finalPath); err == nil {
		return nil, &domain.DuplicateSnapshotError{Date: key}
	}

	tmpPath, err := r.writeTemp(".parsed_"+key+"_*.tmp", data)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpPath)

	if err := os.Link(tmpPath, finalPath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, &domain.DuplicateSnapshotError{Date: key}
		}
		return nil, fmt.Errorf("erro ao publicar snapshot %s: %w", key, err)
	}

	r.syncDir()

	logrus.WithFields(logrus.Fields{
		"date": key,
		"rows": snapshot.RowCount(),
		"path": finalPath,
	}).Info("Snapshot gravado")

	return snapshot, nil
}

func (r *fileSnapshotRepository) Get(ctx context.Context, date time.Time) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.load(dateKey(date))
}

func (r *fileSnapshotRepository) load(key string) (*domain.Snapshot, error) {
	path := r.snapshotPath(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao ler snapshot %s: %w", key, err)
	}

	return decodeSnapshot(data, key, path)
}

func (r *fileSnapshotRepository) ListDates(ctx context.Context) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar snapshots: %w", err)
	}

	dates := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := snapshotFileRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		date, err := domain.ParseCalendarDate(m[1])
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return dates, nil
}

func (r *fileSnapshotRepository) GetLatestBefore(ctx context.Context, date time.Time) (*domain.Snapshot, error) {
	dates, err := r.ListDates(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := domain.CalendarDate(date)
	for i := len(dates) - 1; i >= 0; i-- {
		if dates[i].Before(cutoff) {
			return r.load(dateKey(dates[i]))
		}
	}

	return nil, nil
}

func (r *fileSnapshotRepository) GetLatest(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := r.readPointer()
	if err != nil || key == "" {
		return nil, err
	}

	snapshot, err := r.load(key)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, &domain.CorruptSnapshotError{
			Date:     key,
			Location: filepath.Join(r.dir, latestPointer),
			Err:      domain.ErrSnapshotNotFound,
		}
	}

	return snapshot, nil
}

// Promote troca o ponteiro latest por rename atômico; nunca retrocede no tempo
func (r *fileSnapshotRepository) Promote(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot nulo", domain.ErrSnapshotNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := snapshot.DateString()
	if _, err := os.Stat(r.snapshotPath(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, key)
		}
		return fmt.Errorf("erro ao verificar snapshot %s: %w", key, err)
	}

	current, err := r.readPointer()
	if err != nil {
		return err
	}
	if current > key {
		return fmt.Errorf("%w: latest=%s, pedido=%s", domain.ErrPromoteBackwards, current, key)
	}

	tmpPath, err := r.writeTemp(".latest_*.tmp", []byte(key+"\n"))
	if err != nil {
		return err
	}

	if err := os.Rename(tmpPath, filepath.Join(r.dir, latestPointer)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("erro ao promover snapshot %s: %w", key, err)
	}

	r.syncDir()

	logrus.WithFields(logrus.Fields{
		"date":     key,
		"previous": current,
	}).Info("Snapshot promovido para latest")

	return nil
}

// readPointer devolve "" quando ainda não existe ponteiro
func (r *fileSnapshotRepository) readPointer() (string, error) {
	path := filepath.Join(r.dir, latestPointer)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("erro ao ler ponteiro latest: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if _, err := domain.ParseCalendarDate(key); err != nil {
		return "", &domain.CorruptSnapshotError{Date: key, Location: path, Err: err}
	}

	return key, nil
}

func (r *fileSnapshotRepository) writeTemp(pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(r.dir, pattern)
	if err != nil {
		return "", fmt.Errorf("erro ao criar arquivo temporário: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("erro ao escrever arquivo temporário: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("erro ao sincronizar arquivo temporário: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("erro ao fechar arquivo temporário: %w", err)
	}

	return f.Name(), nil
}

// syncDir persiste as entradas de diretório; falhas só geram log
func (r *fileSnapshotRepository) syncDir() {
	d, err := os.Open(r.dir)
	if err != nil {
		return
	}
	defer d.Close()

	if err := d.Sync(); err != nil {
		logrus.WithError(err).Debug("Não foi possível sincronizar o diretório de snapshots")
	}
}
