// Package iostore implements store.Store with GORM. The same code serves
// SQLite and PostgreSQL databases.
package iostore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gnames/dictmatrix/pkg/db"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/schema"
	"github.com/gnames/dictmatrix/pkg/store"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type gormStore struct {
	db        *gorm.DB
	batchSize int
}

// New creates a store on top of a connected database operator.
func New(op db.Operator, batchSize int) store.Store {
	return &gormStore{db: op.GORM(), batchSize: max(batchSize, 1)}
}

func (s *gormStore) Dictionary(
	ctx context.Context,
	id string,
) (*model.Dictionary, error) {
	var row schema.Dictionary
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("dictionary", id)
	}
	if err != nil {
		return nil, QueryError("dictionary", err)
	}
	return rowToDict(row), nil
}

func (s *gormStore) IsOwner(
	ctx context.Context,
	dictID, apiKey string,
) (bool, error) {
	if apiKey == "" {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&schema.Dictionary{}).
		Where("id = ? AND api_key = ?", dictID, apiKey).
		Count(&count).Error
	if err != nil {
		return false, QueryError("dictionary owner", err)
	}
	return count > 0, nil
}

func (s *gormStore) DictionaryIDs(
	ctx context.Context,
	apiKey string,
) ([]string, error) {
	res := []string{}
	err := s.db.WithContext(ctx).Model(&schema.Dictionary{}).
		Where("api_key = ?", apiKey).
		Order("id").
		Pluck("id", &res).Error
	if err != nil {
		return nil, QueryError("dictionaries", err)
	}
	return res, nil
}

func (s *gormStore) ReplaceDictionary(
	ctx context.Context,
	d *model.Dictionary,
) error {
	rows := make([]schema.Entry, len(d.Entries))
	for i := range d.Entries {
		e := &d.Entries[i]
		if e.ID == "" {
			e.ID = ulid.Make().String()
		}
		e.DictID = d.ID
		row, err := entryToRow(e, d.ID, i)
		if err != nil {
			return ReplaceError(d.ID, err)
		}
		rows[i] = row
	}
	d.NEntries = len(d.Entries)
	if d.ImportTime.IsZero() {
		d.ImportTime = time.Now()
	}
	dictRow := dictToRow(d)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("dict_id = ?", d.ID).Delete(&schema.Entry{}).Error
		if err != nil {
			return err
		}
		err = tx.Where("id = ?", d.ID).Delete(&schema.Dictionary{}).Error
		if err != nil {
			return err
		}
		if err = tx.Create(&dictRow).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, s.batchSize).Error
	})
	if err != nil {
		return ReplaceError(d.ID, err)
	}

	slog.Info("Dictionary stored", "dict_id", d.ID, "entries", d.NEntries)
	return nil
}

func (s *gormStore) EntryKeys(
	ctx context.Context,
	dictID string,
) ([]store.EntryKey, error) {
	var rows []schema.Entry
	err := s.db.WithContext(ctx).
		Select("id", "lemma", "part_of_speech", "origin_id").
		Where("dict_id = ?", dictID).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return nil, QueryError("entry keys", err)
	}
	res := make([]store.EntryKey, len(rows))
	for i, r := range rows {
		res[i] = store.EntryKey{
			ID:           r.ID,
			Lemma:        r.Lemma,
			PartOfSpeech: model.PartOfSpeech(r.PartOfSpeech),
			OriginID:     r.OriginID,
		}
	}
	return res, nil
}

func (s *gormStore) Entries(
	ctx context.Context,
	dictID string,
	ids []string,
) ([]model.Entry, error) {
	var rows []schema.Entry
	q := s.db.WithContext(ctx).Where("dict_id = ?", dictID)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	if err := q.Order("position").Find(&rows).Error; err != nil {
		return nil, QueryError("entries", err)
	}
	res := make([]model.Entry, len(rows))
	for i := range rows {
		e, err := rowToEntry(rows[i])
		if err != nil {
			return nil, QueryError("entries", err)
		}
		res[i] = e
	}
	return res, nil
}

func (s *gormStore) Entry(
	ctx context.Context,
	dictID, entryID string,
) (*model.Entry, error) {
	var row schema.Entry
	err := s.db.WithContext(ctx).
		Where("dict_id = ? AND id = ?", dictID, entryID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("entry", dictID+"/"+entryID)
	}
	if err != nil {
		return nil, QueryError("entry", err)
	}
	res, err := rowToEntry(row)
	if err != nil {
		return nil, QueryError("entry", err)
	}
	return &res, nil
}

func (s *gormStore) Lemmas(
	ctx context.Context,
	dictID string,
	offset, limit int,
) ([]model.Lemma, error) {
	return s.lemmas(ctx, dictID, "", "", offset, limit)
}

func (s *gormStore) LemmaLookup(
	ctx context.Context,
	dictID, headword string,
	pos model.PartOfSpeech,
	offset, limit int,
) ([]model.Lemma, error) {
	if headword == "" {
		return []model.Lemma{}, nil
	}
	return s.lemmas(ctx, dictID, headword, pos, offset, limit)
}

func (s *gormStore) lemmas(
	ctx context.Context,
	dictID, headword string,
	pos model.PartOfSpeech,
	offset, limit int,
) ([]model.Lemma, error) {
	d, err := s.Dictionary(ctx, dictID)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Select("id", "lemma", "part_of_speech", "language").
		Where("dict_id = ?", dictID)
	if headword != "" {
		q = q.Where("lemma = ?", headword)
	}
	if pos != "" {
		q = q.Where("part_of_speech = ?", string(pos))
	}
	q = q.Order("position")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []schema.Entry
	if err = q.Find(&rows).Error; err != nil {
		return nil, QueryError("lemmas", err)
	}

	res := make([]model.Lemma, len(rows))
	for i, r := range rows {
		res[i] = model.Lemma{
			Lemma:        r.Lemma,
			ID:           r.ID,
			PartOfSpeech: model.PartOfSpeech(r.PartOfSpeech),
			Language:     r.Language,
			Formats:      model.Formats,
			Release:      d.Meta.Release,
		}
	}
	return res, nil
}

func (s *gormStore) CreateImportJob(
	ctx context.Context,
	job *jobs.ImportJob,
) error {
	row := importJobToRow(job)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return SaveError("import job", job.ID, err)
	}
	job.CreatedAt, job.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

func (s *gormStore) ImportJob(
	ctx context.Context,
	id string,
) (*jobs.ImportJob, error) {
	var row schema.ImportJob
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("import job", id)
	}
	if err != nil {
		return nil, QueryError("import job", err)
	}
	return rowToImportJob(row), nil
}

func (s *gormStore) UpdateImportJob(
	ctx context.Context,
	job *jobs.ImportJob,
) error {
	row := importJobToRow(job)
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return SaveError("import job", job.ID, err)
	}
	job.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *gormStore) CreateLinkingJob(
	ctx context.Context,
	job *jobs.LinkingJob,
) error {
	row, err := linkingJobToRow(job)
	if err != nil {
		return SaveError("linking job", job.ID, err)
	}
	if err = s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return SaveError("linking job", job.ID, err)
	}
	job.CreatedAt, job.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

func (s *gormStore) LinkingJob(
	ctx context.Context,
	id string,
) (*jobs.LinkingJob, error) {
	var row schema.LinkingJob
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("linking job", id)
	}
	if err != nil {
		return nil, QueryError("linking job", err)
	}
	res, err := rowToLinkingJob(row)
	if err != nil {
		return nil, QueryError("linking job", err)
	}
	return res, nil
}

func (s *gormStore) UpdateLinkingJob(
	ctx context.Context,
	job *jobs.LinkingJob,
) error {
	row, err := linkingJobToRow(job)
	if err != nil {
		return SaveError("linking job", job.ID, err)
	}
	if err = s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return SaveError("linking job", job.ID, err)
	}
	job.UpdatedAt = row.UpdatedAt
	return nil
}
