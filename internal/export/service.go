package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/listing"
)

// Lister is the part of the bill repository the export reads from.
type Lister interface {
	ListBills(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error)
}

// Proofs resolves and opens stored proof files.
type Proofs interface {
	KeyOf(fileURL string) (string, error)
	Open(key string) (*os.File, error)
}

// Item represents a single exported bill with its local proof path.
type Item struct {
	Bill     *bill.Bill
	FilePath string
}

// Service copies bills and their proofs to a directory for accounting.
type Service struct {
	bills  Lister
	proofs Proofs
}

func NewService(bills Lister, proofs Proofs) *Service {
	return &Service{bills: bills, proofs: proofs}
}

// Export copies the proof of every bill matching filter into outputDir.
func (s *Service) Export(ctx context.Context, filter bill.ListFilter, outputDir string) ([]Item, error) {
	bills, err := s.bills.ListBills(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(bills))

	for _, b := range bills {
		item := Item{Bill: b}

		if b.FileURL != "" {
			path, err := s.copyProof(b, outputDir)
			if err != nil {
				return nil, fmt.Errorf("copying proof for bill %s: %w", b.ID, err)
			}

			item.FilePath = path
		}

		items = append(items, item)
	}

	return items, nil
}

func (s *Service) copyProof(b *bill.Bill, dir string) (string, error) {
	key, err := s.proofs.KeyOf(b.FileURL)
	if err != nil {
		return "", err
	}

	src, err := s.proofs.Open(key)
	if err != nil {
		return "", fmt.Errorf("opening proof: %w", err)
	}
	defer src.Close()

	ext, err := extension(b, key, src)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fileName(b, ext))

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

// extension comes from the uploaded file name, then the storage key, then
// the content itself. src is rewound when sniffed.
func extension(b *bill.Bill, key string, src io.ReadSeeker) (string, error) {
	for _, name := range []string{b.FileName, key} {
		if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
			return ext, nil
		}
	}

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detecting proof type: %w", err)
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding proof: %w", err)
	}

	return mt.Extension(), nil
}

// fileName is YYYYMMDD_<name>_<id prefix><ext>.
func fileName(b *bill.Bill, ext string) string {
	safeName := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, b.Name)

	id := b.ID
	if len(id) > 8 {
		id = id[:8]
	}

	return fmt.Sprintf("%s_%s_%s%s", strings.ReplaceAll(b.Date, "-", ""), safeName, id, ext)
}

// GenerateSummary lists the exported bills, one per line.
func (s *Service) GenerateSummary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		d := listing.Display(*item.Bill)

		fileStatus := "Sans justificatif"
		if item.FilePath != "" {
			fileStatus = filepath.Base(item.FilePath)
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s | %s | %s\n",
			d.Date, d.Email, d.Name, d.DisplayAmount, d.DisplayStatus, fileStatus)
	}

	return sb.String()
}
