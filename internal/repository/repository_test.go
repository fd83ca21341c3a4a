package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ticketlogger/server/internal/database"
	"ticketlogger/server/internal/models"
)

func newTestStore(t *testing.T) (Store, *gorm.DB) {
	t.Helper()
	db, err := database.ConnectSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return NewStore(db), db
}

func TestRegionRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	repo := store.Regions()

	region := &models.Region{Code: "AND", Name: "Andalucía"}
	if err := repo.Save(region); err != nil {
		t.Fatalf("save: %v", err)
	}
	if region.ID == 0 {
		t.Fatal("expected id to be assigned")
	}

	got, err := repo.FindByID(region.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Code != "AND" || got.Name != "Andalucía" {
		t.Errorf("got %+v", got)
	}

	exists, err := repo.ExistsByCode("and")
	if err != nil || !exists {
		t.Errorf("ExistsByCode(and) = %v, %v; want true", exists, err)
	}
	exists, err = repo.ExistsByCodeAndNotID("AND", region.ID)
	if err != nil || exists {
		t.Errorf("ExistsByCodeAndNotID own id = %v, %v; want false", exists, err)
	}

	if err := repo.DeleteByID(region.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(region.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID after delete = %v, want ErrNotFound", err)
	}
}

func TestSaveDuplicateIsUniqueViolation(t *testing.T) {
	store, _ := newTestStore(t)
	repo := store.Supermarkets()

	if err := repo.Save(&models.Supermarket{Name: "Mercadona"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	err := repo.Save(&models.Supermarket{Name: "Mercadona"})
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestUniqueKeyFoldsNonASCII(t *testing.T) {
	store, _ := newTestStore(t)
	repo := store.Supermarkets()

	dia := &models.Supermarket{Name: "Día"}
	mustSave(t, repo.Save(dia))

	found, err := repo.ExistsByName("DÍA")
	if err != nil || !found {
		t.Errorf("ExistsByName(DÍA) = %v, %v, want true", found, err)
	}
	found, err = repo.ExistsByNameAndNotID("día", dia.ID)
	if err != nil || found {
		t.Errorf("ExistsByNameAndNotID(own id) = %v, %v, want false", found, err)
	}

	// индекс по ключу ловит дубликат даже без предварительной проверки
	if err := repo.Save(&models.Supermarket{Name: "DÍA"}); !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestDeleteReferencedSupermarketIsForeignKeyViolation(t *testing.T) {
	store, _ := newTestStore(t)

	region := &models.Region{Code: "MAD", Name: "Madrid"}
	mustSave(t, store.Regions().Save(region))
	province := &models.Province{Code: "M", Name: "Madrid", RegionID: region.ID}
	mustSave(t, store.Provinces().Save(province))
	sm := &models.Supermarket{Name: "Dia"}
	mustSave(t, store.Supermarkets().Save(sm))
	mustSave(t, store.Locations().Save(&models.Location{
		Address: "Calle Mayor 1", City: "Madrid", SupermarketID: sm.ID, ProvinceID: province.ID,
	}))

	count, err := store.Supermarkets().CountLocations(sm.ID)
	if err != nil || count != 1 {
		t.Fatalf("CountLocations = %d, %v", count, err)
	}
	if err := store.Supermarkets().DeleteByID(sm.ID); !IsForeignKeyViolation(err) {
		t.Errorf("expected FK violation, got %v", err)
	}

	loc, err := store.Locations().FindAll()
	if err != nil || len(loc) != 1 {
		t.Fatalf("FindAll locations = %v, %v", loc, err)
	}
	if loc[0].Supermarket == nil || loc[0].Province == nil {
		t.Error("expected supermarket and province to be preloaded")
	}
}

func TestCategoryChildrenDetach(t *testing.T) {
	store, _ := newTestStore(t)
	repo := store.Categories()

	root := &models.Category{Name: "Bebidas"}
	mustSave(t, repo.Save(root))
	child := &models.Category{Name: "Refrescos", ParentID: &root.ID}
	mustSave(t, repo.Save(child))

	children, err := repo.FindChildren(root.ID)
	if err != nil || len(children) != 1 || children[0].ID != child.ID {
		t.Fatalf("FindChildren = %v, %v", children, err)
	}

	if err := repo.DetachChildren(root.ID); err != nil {
		t.Fatalf("detach: %v", err)
	}
	got, err := repo.FindByID(child.ID)
	if err != nil {
		t.Fatalf("find child: %v", err)
	}
	if got.ParentID != nil {
		t.Errorf("ParentID = %v, want nil", *got.ParentID)
	}
}

func TestTransactionRollback(t *testing.T) {
	store, _ := newTestStore(t)
	boom := errors.New("boom")

	err := store.Transaction(context.Background(), func(tx Store) error {
		if err := tx.Regions().Save(&models.Region{Code: "CAT", Name: "Cataluña"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction = %v, want boom", err)
	}

	n, err := store.Regions().Count()
	if err != nil || n != 0 {
		t.Errorf("Count after rollback = %d, %v; want 0", n, err)
	}
}

func TestFindByUsername(t *testing.T) {
	store, db := newTestStore(t)
	if err := models.InitDefaultUsers(db, "secret"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	u, err := store.Users().FindByUsername("manager")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.Role != models.RoleManager {
		t.Errorf("role = %s, want MANAGER", u.Role)
	}
	if _, err := store.Users().FindByUsername("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user err = %v, want ErrNotFound", err)
	}
}

func mustSave(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
}
