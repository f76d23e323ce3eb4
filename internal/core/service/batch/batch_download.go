package batch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
)

// BatchDownload writes a zip archive holding every document's blob to w.
// All ids are resolved before the first byte is written.
func (b *batchService) BatchDownload(ctx context.Context, ids []uuid.UUID, w io.Writer) error {
	ids, err := b.normalize(ids)
	if err != nil {
		return err
	}
	docs, err := resolve(ctx, b.uow.DocumentRepo(), ids)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	names := entryNames(docs)
	for i, doc := range docs {
		// the archive is left unterminated on failure
		if err := b.writeEntry(ctx, zw, names[i], doc); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

func (b *batchService) writeEntry(ctx context.Context, zw *zip.Writer, name string, doc domain.Document) error {
	body, err := b.storage.GetObject(ctx, doc.StorageName)
	if err != nil {
		return fmt.Errorf("%w: document %s: %v", domain.ErrStorage, doc.ID, err)
	}
	defer body.Close()

	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: doc.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}
	if _, err := io.Copy(entry, body); err != nil {
		return fmt.Errorf("%w: document %s: %v", domain.ErrStorage, doc.ID, err)
	}
	return nil
}

// entryNames returns one archive name per document, suffixing repeats as "name (2).ext"
func entryNames(docs []domain.Document) []string {
	used := make(map[string]int, len(docs))
	names := make([]string, len(docs))
	for i, doc := range docs {
		base := filepath.Base(doc.FileName)
		if base == "." || base == "/" || base == "" {
			base = doc.ID.String()
		}
		name := base
		key := strings.ToLower(base)
		if used[key] > 0 {
			ext := filepath.Ext(base)
			stem := strings.TrimSuffix(base, ext)
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
				if used[strings.ToLower(candidate)] == 0 {
					name = candidate
					break
				}
			}
		}
		used[key]++
		if name != base {
			used[strings.ToLower(name)]++
		}
		names[i] = name
	}
	return names
}
