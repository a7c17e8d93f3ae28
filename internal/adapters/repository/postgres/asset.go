package postgres

import (
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/port"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

const assetColumns = `id, public_id, cloudinary_url, secure_url, format, width, height, bytes,
       original_filename, folder, tags, metadata, transformations, status,
       error_message, user_id, uploaded_at, updated_at`

type sqlAssetRepository struct {
	db SQLQuerier
}

// NewSqlAssetRepository creates sqlAssetRepository that implements port.AssetRepository
func NewSqlAssetRepository(db SQLQuerier) port.AssetRepository {
	return &sqlAssetRepository{
		db: db,
	}
}

// Create inserts a new asset record
func (s *sqlAssetRepository) Create(ctx context.Context, asset domain.Asset) error {
	row, err := fromDomain(asset)
	if err != nil {
		return err
	}

	query := `INSERT INTO assets (id, public_id, cloudinary_url, secure_url, format, width, height, bytes,
                                  original_filename, folder, tags, metadata, transformations, status,
                                  error_message, user_id, uploaded_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err = s.db.ExecContext(ctx, query,
		row.ID,
		row.PublicID,
		row.CloudinaryURL,
		row.SecureURL,
		row.Format,
		row.Width,
		row.Height,
		row.Bytes,
		row.OriginalFilename,
		row.Folder,
		pq.Array(row.Tags),
		string(row.Metadata),
		string(row.Transformations),
		row.Status,
		row.ErrorMessage,
		row.UserID,
		row.UploadedAt,
		row.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return fmt.Errorf("asset %s : %w", asset.PublicID, domain.ErrAlreadyExists)
			}
		}
		return fmt.Errorf("error inserting asset: %w", err)
	}
	return nil
}

// FindByPublicID finds an asset by its cloudinary public id
func (s *sqlAssetRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE public_id = $1`
	return s.findOne(ctx, query, publicID)
}

// FindByPublicIDForUpdate locks the row until the surrounding transaction ends
func (s *sqlAssetRepository) FindByPublicIDForUpdate(ctx context.Context, publicID string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE public_id = $1 FOR UPDATE`
	return s.findOne(ctx, query, publicID)
}

func (s *sqlAssetRepository) findOne(ctx context.Context, query string, publicID string) (*domain.Asset, error) {
	var row dbAsset
	if err := row.scan(s.db.QueryRowContext(ctx, query, publicID)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}
	return row.ToDomain()
}

// List returns assets matching filter, newest first
func (s *sqlAssetRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Asset, error) {
	var (
		conditions []string
		args       []any
	)
	add := func(condition string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.UserID != "" {
		add("user_id = $%d", filter.UserID)
	}
	if filter.Folder != "" {
		add("folder = $%d", filter.Folder)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Tag != "" {
		add("$%d = ANY(tags)", filter.Tag)
	}
	if filter.Before != nil {
		add("uploaded_at < $%d", *filter.Before)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := `SELECT ` + assetColumns + ` FROM assets`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY uploaded_at DESC, public_id LIMIT $%d`, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying assets: %w", err)
	}
	defer rows.Close()

	assets := make([]domain.Asset, 0)
	for rows.Next() {
		var row dbAsset
		if err := row.scan(rows); err != nil {
			return nil, fmt.Errorf("error scanning asset: %w", err)
		}
		asset, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		assets = append(assets, *asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

// Update overwrites every mutable column of the asset identified by its public id
func (s *sqlAssetRepository) Update(ctx context.Context, asset domain.Asset) error {
	row, err := fromDomain(asset)
	if err != nil {
		return err
	}

	query := `UPDATE assets
              SET cloudinary_url = $1, secure_url = $2, format = $3, width = $4, height = $5,
                  bytes = $6, original_filename = $7, folder = $8, tags = $9, metadata = $10,
                  transformations = $11, status = $12, error_message = $13, user_id = $14,
                  updated_at = now()
              WHERE public_id = $15`

	result, err := s.db.ExecContext(ctx, query,
		row.CloudinaryURL,
		row.SecureURL,
		row.Format,
		row.Width,
		row.Height,
		row.Bytes,
		row.OriginalFilename,
		row.Folder,
		pq.Array(row.Tags),
		string(row.Metadata),
		string(row.Transformations),
		row.Status,
		row.ErrorMessage,
		row.UserID,
		row.PublicID,
	)
	if err != nil {
		return fmt.Errorf("error updating asset: %w", err)
	}
	return checkAffected(result)
}

// UpdateStatus updates status and error message
func (s *sqlAssetRepository) UpdateStatus(ctx context.Context, publicID string, status domain.AssetStatus, errorMessage *string) error {
	query := `UPDATE assets
              SET status = $1, error_message = $2, updated_at = now()
              WHERE public_id = $3`

	result, err := s.db.ExecContext(ctx, query, status, errorMessage, publicID)
	if err != nil {
		return fmt.Errorf("error updating asset status: %w", err)
	}
	return checkAffected(result)
}

// DeleteByPublicID hard deletes, the remote image is the source of truth
func (s *sqlAssetRepository) DeleteByPublicID(ctx context.Context, publicID string) error {
	query := `DELETE FROM assets WHERE public_id = $1`

	result, err := s.db.ExecContext(ctx, query, publicID)
	if err != nil {
		return fmt.Errorf("error deleting asset: %w", err)
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// dbAsset represents an asset in DB
type dbAsset struct {
	ID               uuid.UUID      `db:"id"`
	PublicID         string         `db:"public_id"`
	CloudinaryURL    string         `db:"cloudinary_url"`
	SecureURL        string         `db:"secure_url"`
	Format           string         `db:"format"`
	Width            sql.NullInt32  `db:"width"`
	Height           sql.NullInt32  `db:"height"`
	Bytes            sql.NullInt64  `db:"bytes"`
	OriginalFilename sql.NullString `db:"original_filename"`
	Folder           string         `db:"folder"`
	Tags             []string       `db:"tags"`
	Metadata         []byte         `db:"metadata"`
	Transformations  []byte         `db:"transformations"`
	Status           string         `db:"status"`
	ErrorMessage     sql.NullString `db:"error_message"`
	UserID           sql.NullString `db:"user_id"`
	UploadedAt       time.Time      `db:"uploaded_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (a *dbAsset) scan(s rowScanner) error {
	return s.Scan(
		&a.ID,
		&a.PublicID,
		&a.CloudinaryURL,
		&a.SecureURL,
		&a.Format,
		&a.Width,
		&a.Height,
		&a.Bytes,
		&a.OriginalFilename,
		&a.Folder,
		pq.Array(&a.Tags),
		&a.Metadata,
		&a.Transformations,
		&a.Status,
		&a.ErrorMessage,
		&a.UserID,
		&a.UploadedAt,
		&a.UpdatedAt,
	)
}

// ToDomain converts to domain.Asset
func (a *dbAsset) ToDomain() (*domain.Asset, error) {
	asset := &domain.Asset{
		ID:            a.ID,
		PublicID:      a.PublicID,
		CloudinaryURL: a.CloudinaryURL,
		SecureURL:     a.SecureURL,
		Format:        a.Format,
		Folder:        a.Folder,
		Tags:          a.Tags,
		Status:        domain.AssetStatus(a.Status),
		UploadedAt:    a.UploadedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if asset.Tags == nil {
		asset.Tags = []string{}
	}
	if a.Width.Valid {
		w := int(a.Width.Int32)
		asset.Width = &w
	}
	if a.Height.Valid {
		h := int(a.Height.Int32)
		asset.Height = &h
	}
	if a.Bytes.Valid {
		asset.Bytes = &a.Bytes.Int64
	}
	if a.OriginalFilename.Valid {
		asset.OriginalFilename = &a.OriginalFilename.String
	}
	if a.ErrorMessage.Valid {
		asset.ErrorMessage = &a.ErrorMessage.String
	}
	if a.UserID.Valid {
		asset.UserID = &a.UserID.String
	}
	if len(a.Metadata) > 0 {
		if err := json.Unmarshal(a.Metadata, &asset.Metadata); err != nil {
			return nil, fmt.Errorf("error decoding metadata of %s: %w", a.PublicID, err)
		}
	}
	if len(a.Transformations) > 0 {
		if err := json.Unmarshal(a.Transformations, &asset.Transformations); err != nil {
			return nil, fmt.Errorf("error decoding transformations of %s: %w", a.PublicID, err)
		}
	}
	return asset, nil
}

func fromDomain(asset domain.Asset) (*dbAsset, error) {
	metadata := asset.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("error encoding metadata: %w", err)
	}
	transformations := asset.Transformations
	if transformations == nil {
		transformations = []string{}
	}
	transformationsJSON, err := json.Marshal(transformations)
	if err != nil {
		return nil, fmt.Errorf("error encoding transformations: %w", err)
	}

	row := &dbAsset{
		ID:              asset.ID,
		PublicID:        asset.PublicID,
		CloudinaryURL:   asset.CloudinaryURL,
		SecureURL:       asset.SecureURL,
		Format:          asset.Format,
		Folder:          asset.Folder,
		Tags:            asset.Tags,
		Metadata:        metadataJSON,
		Transformations: transformationsJSON,
		Status:          string(asset.Status),
		UploadedAt:      asset.UploadedAt,
		UpdatedAt:       asset.UpdatedAt,
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Tags == nil {
		row.Tags = []string{}
	}
	if row.Status == "" {
		row.Status = string(domain.AssetStatusPending)
	}
	now := time.Now().UTC()
	if row.UploadedAt.IsZero() {
		row.UploadedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = now
	}
	if asset.Width != nil {
		row.Width = sql.NullInt32{Int32: int32(*asset.Width), Valid: true}
	}
	if asset.Height != nil {
		row.Height = sql.NullInt32{Int32: int32(*asset.Height), Valid: true}
	}
	if asset.Bytes != nil {
		row.Bytes = sql.NullInt64{Int64: *asset.Bytes, Valid: true}
	}
	if asset.OriginalFilename != nil {
		row.OriginalFilename = sql.NullString{String: *asset.OriginalFilename, Valid: true}
	}
	if asset.ErrorMessage != nil {
		row.ErrorMessage = sql.NullString{String: *asset.ErrorMessage, Valid: true}
	}
	if asset.UserID != nil {
		row.UserID = sql.NullString{String: *asset.UserID, Valid: true}
	}
	return row, nil
}
