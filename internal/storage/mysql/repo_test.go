package mysql

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"coffee_finder/internal/domain"
)

var shopCols = []string{
	"id", "name", "lat", "lng", "address", "city", "state", "zip_code", "rating", "review_count",
	"price", "categories", "description", "phone", "website", "image_url", "hours", "signature_offering",
}

func newMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestRepo_GetByID_ScansRow(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(getShopSQL).WithArgs("kona-1").WillReturnRows(
		sqlmock.NewRows(shopCols).AddRow(
			"kona-1", "Kona Coffee Purveyors", 21.2793, -157.8292, "2330 Kalakaua Ave", "Honolulu", "HI", "96815",
			4.6, 1800, "$$", `[{"alias":"coffee","title":"Coffee & Tea"}]`, "Coffee & Tea", nil, nil, nil, "07:00 - 16:00", "Kona Latte",
		),
	)

	v, err := repo.GetByID(context.Background(), "kona-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if v.Name != "Kona Coffee Purveyors" || v.ZipCode != "96815" || v.ReviewCount != 1800 {
		t.Fatalf("unexpected venue %+v", v)
	}
	if v.Lat == nil || *v.Lat != 21.2793 {
		t.Fatalf("expected coordinates, got %+v", v)
	}
	if len(v.Categories) != 1 || v.Categories[0].Alias != "coffee" {
		t.Fatalf("unexpected categories %+v", v.Categories)
	}
	if v.SignatureOffering != "Kona Latte" || v.Phone != "" {
		t.Fatalf("unexpected optional fields %+v", v)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(getShopSQL).WithArgs("nope").WillReturnRows(sqlmock.NewRows(shopCols))

	_, err := repo.GetByID(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_Query_Fields(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(queryShopsSQL["zip_code"]).WithArgs("96815").WillReturnRows(
		sqlmock.NewRows(shopCols).
			AddRow("a", "Alpha Cafe", nil, nil, "", "Honolulu", "HI", "96815", 4.5, 40, nil, nil, nil, nil, nil, nil, nil, nil).
			AddRow("b", "Beta Roast", nil, nil, "", "Honolulu", "HI", "96815", 4.2, 30, nil, nil, nil, nil, nil, nil, nil, nil),
	)

	got, err := repo.Query(context.Background(), "zip_code", "96815")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].Lat != nil {
		t.Fatalf("unexpected rows %+v", got)
	}

	if _, err := repo.Query(context.Background(), "phone; DROP TABLE", "x"); err == nil {
		t.Fatalf("expected unsupported field error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRepo_Query_EscapesLikeWildcards(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(queryShopsSQL["city"]).WithArgs("100!%!_kona!!").WillReturnRows(sqlmock.NewRows(shopCols))
	mock.ExpectQuery(queryShopsSQL["zip_code"]).WithArgs("96_15").WillReturnRows(sqlmock.NewRows(shopCols))

	if _, err := repo.Query(context.Background(), "city", "100%_kona!"); err != nil {
		t.Fatalf("Query city: %v", err)
	}
	if _, err := repo.Query(context.Background(), "zip_code", "96_15"); err != nil {
		t.Fatalf("Query zip: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRepo_GetByID_CorruptCategoriesLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	repo, mock := newMock(t)
	mock.ExpectQuery(getShopSQL).WithArgs("bad-1").WillReturnRows(
		sqlmock.NewRows(shopCols).
			AddRow("bad-1", "Broken Cafe", nil, nil, "", "Hilo", "HI", "96720", 4.1, 20, nil, "{not json", nil, nil, nil, nil, nil, nil),
	)

	v, err := repo.GetByID(context.Background(), "bad-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(v.Categories) != 0 {
		t.Fatalf("expected no categories, got %+v", v.Categories)
	}
	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, "bad-1") {
		t.Fatalf("expected warn log, got %q", out)
	}
}

func TestRepo_Insert_Upserts(t *testing.T) {
	repo, mock := newMock(t)
	lat, lng := 21.3, -157.8
	mock.ExpectExec(upsertShopSQL).WithArgs(
		"x1", "Morning Brew", lat, lng, "1 Main St", "Kailua", "HI", "96734", 4.4, 120,
		"$", "[]", nil, nil, nil, nil, nil, nil,
	).WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), domain.Venue{
		ID: "x1", Name: "Morning Brew", Lat: &lat, Lng: &lng, Address: "1 Main St",
		City: "Kailua", State: "HI", ZipCode: "96734", Rating: 4.4, ReviewCount: 120, Price: "$",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRepo_Stats(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(statsTotalsSQL).WillReturnRows(
		sqlmock.NewRows([]string{"count", "avg"}).AddRow(3, 4.4333333),
	)
	mock.ExpectQuery(statsTopRatedSQL).WillReturnRows(
		sqlmock.NewRows(shopCols).
			AddRow("a", "Alpha Cafe", nil, nil, "", "Honolulu", "HI", "96815", 4.8, 40, nil, nil, nil, nil, nil, nil, nil, nil),
	)
	mock.ExpectQuery(statsByCitySQL).WillReturnRows(
		sqlmock.NewRows([]string{"city", "n"}).AddRow("Honolulu", 2).AddRow("Kailua", 1),
	)
	mock.ExpectQuery(statsByStateSQL).WillReturnRows(
		sqlmock.NewRows([]string{"state", "n"}).AddRow("HI", 3),
	)

	st, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalShops != 3 || st.AvgRating != 4.43 {
		t.Fatalf("unexpected totals %+v", st)
	}
	if len(st.TopRated) != 1 || st.ByCity["Honolulu"] != 2 || st.ByState["HI"] != 3 {
		t.Fatalf("unexpected breakdown %+v", st)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
