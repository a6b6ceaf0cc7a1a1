package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"coffee_finder/internal/domain"
)

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanShop(s scanner) (domain.Venue, error) {
	var v domain.Venue
	var lat, lng sql.NullFloat64
	var price, cats, desc, phone, web, img, hours, sig sql.NullString
	if err := s.Scan(
		&v.ID, &v.Name,
		&lat, &lng,
		&v.Address, &v.City, &v.State, &v.ZipCode,
		&v.Rating, &v.ReviewCount,
		&price, &cats, &desc, &phone, &web, &img, &hours, &sig,
	); err != nil {
		return domain.Venue{}, err
	}
	if lat.Valid && lng.Valid {
		la, ln := lat.Float64, lng.Float64
		v.Lat, v.Lng = &la, &ln
	}
	if cats.Valid && cats.String != "" {
		if err := json.Unmarshal([]byte(cats.String), &v.Categories); err != nil {
			log.Warn().Str("component", "mysql").Str("id", v.ID).Err(err).Msg("corrupt categories json")
			v.Categories = nil
		}
	}
	v.Price = price.String
	v.Description = desc.String
	v.Phone = phone.String
	v.Website = web.String
	v.ImageURL = img.String
	v.Hours = hours.String
	v.SignatureOffering = sig.String
	return v, nil
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]domain.Venue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Venue{}
	for rows.Next() {
		v, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetAll(ctx context.Context) ([]domain.Venue, error) {
	return r.list(ctx, listShopsSQL)
}

func (r *Repo) GetByID(ctx context.Context, id string) (domain.Venue, error) {
	v, err := scanShop(r.db.QueryRowContext(ctx, getShopSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Venue{}, domain.ErrNotFound
	}
	return v, err
}

// Query filters by one of zip_code, city, state or name (substring).
func (r *Repo) Query(ctx context.Context, field, value string) ([]domain.Venue, error) {
	q, ok := queryShopsSQL[field]
	if !ok {
		return nil, fmt.Errorf("mysql: unsupported query field %q", field)
	}
	if likeFields[field] {
		value = likeEscaper.Replace(value)
	}
	return r.list(ctx, q, value)
}

// LIKE patterns use '!' as the escape character (see sql.go).
var (
	likeFields  = map[string]bool{"city": true, "name": true}
	likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
)

// Insert upserts by id. Derived ranking fields other than the stored signature are not persisted.
func (r *Repo) Insert(ctx context.Context, v domain.Venue) error {
	cats, _ := json.Marshal(v.Categories)
	if len(v.Categories) == 0 {
		cats = []byte("[]")
	}
	_, err := r.db.ExecContext(ctx, upsertShopSQL,
		v.ID,
		v.Name,
		valF64(v.Lat),
		valF64(v.Lng),
		v.Address,
		v.City,
		v.State,
		v.ZipCode,
		v.Rating,
		v.ReviewCount,
		valStr(v.Price),
		string(cats),
		valStr(v.Description),
		valStr(v.Phone),
		valStr(v.Website),
		valStr(v.ImageURL),
		valStr(v.Hours),
		valStr(v.SignatureOffering),
	)
	return err
}

func (r *Repo) Stats(ctx context.Context) (domain.StoreStats, error) {
	var st domain.StoreStats
	if err := r.db.QueryRowContext(ctx, statsTotalsSQL).Scan(&st.TotalShops, &st.AvgRating); err != nil {
		return domain.StoreStats{}, err
	}
	st.AvgRating = math.Round(st.AvgRating*100) / 100

	top, err := r.list(ctx, statsTopRatedSQL)
	if err != nil {
		return domain.StoreStats{}, err
	}
	st.TopRated = top

	if st.ByCity, err = r.counts(ctx, statsByCitySQL); err != nil {
		return domain.StoreStats{}, err
	}
	if st.ByState, err = r.counts(ctx, statsByStateSQL); err != nil {
		return domain.StoreStats{}, err
	}
	return st, nil
}

func (r *Repo) counts(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, rows.Err()
}
