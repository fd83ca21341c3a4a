package services

import (
	"context"
	"errors"
	"testing"

	"ticketlogger/server/internal/events"
	"ticketlogger/server/internal/models"
)

func TestCategoryDeleteRemovesImage(t *testing.T) {
	ctx := context.Background()
	files := newMemoryFiles()
	pub := &recordingPublisher{}
	svc := NewCategoryService(newTestStore(t), files, pub, discard)

	cat := &models.Category{Name: "Frutas"}
	if err := svc.Create(ctx, cat, upload(t, "frutas.png", []byte("img"))); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !cat.HasImage() || !files.has(*cat.Image) {
		t.Fatalf("image not stored: %+v", cat.Image)
	}
	image := *cat.Image

	if err := svc.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if files.has(image) {
		t.Error("image should be deleted from storage")
	}
	if _, err := svc.Get(ctx, cat.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
	if ev := pub.last(); ev.Action != events.ActionDeleted || ev.Name != "Frutas" {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestCategoryDeleteWithoutImage(t *testing.T) {
	ctx := context.Background()
	files := newMemoryFiles()
	svc := NewCategoryService(newTestStore(t), files, events.NopPublisher{}, discard)

	cat := &models.Category{Name: "Limpieza"}
	mustOK(t, svc.Create(ctx, cat, nil))
	mustOK(t, svc.Delete(ctx, cat.ID))
	if len(files.deleted) != 0 {
		t.Errorf("storage should not be touched, deleted %v", files.deleted)
	}
	if err := svc.Delete(ctx, cat.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing err = %v", err)
	}
}

func TestCategoryCreateFailureCleansUpImage(t *testing.T) {
	ctx := context.Background()
	files := newMemoryFiles()
	svc := NewCategoryService(newTestStore(t), files, events.NopPublisher{}, discard)

	parent := uint(777)
	err := svc.Create(ctx, &models.Category{Name: "Huérfana", ParentID: &parent}, upload(t, "a.png", []byte("x")))
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("err = %v, want ErrInvalidReference", err)
	}
	if len(files.files) != 0 {
		t.Errorf("no files should be stored, got %d", len(files.files))
	}
	if err := svc.Create(ctx, &models.Category{Name: "Vacía"}, upload(t, "a.png", nil)); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("empty upload err = %v, want ErrInvalidImage", err)
	}
}

func TestCategoryUpdateReplacesImage(t *testing.T) {
	ctx := context.Background()
	files := newMemoryFiles()
	svc := NewCategoryService(newTestStore(t), files, events.NopPublisher{}, discard)

	cat := &models.Category{Name: "Lácteos"}
	mustOK(t, svc.Create(ctx, cat, upload(t, "old.png", []byte("old"))))
	old := *cat.Image

	update := &models.Category{ID: cat.ID, Name: "Lácteos"}
	mustOK(t, svc.Update(ctx, update, upload(t, "new.png", []byte("new"))))
	if update.Image == nil || *update.Image == old {
		t.Fatalf("image not replaced: %v", update.Image)
	}
	if files.has(old) {
		t.Error("old image should be removed after commit")
	}

	// без нового файла изображение сохраняется
	keep := &models.Category{ID: cat.ID, Name: "Lácteos y huevos"}
	mustOK(t, svc.Update(ctx, keep, nil))
	if keep.Image == nil || *keep.Image != *update.Image {
		t.Errorf("image lost on update without upload: %v", keep.Image)
	}
}

func TestCategoryUniqueName(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(newTestStore(t), newMemoryFiles(), events.NopPublisher{}, discard)

	mustOK(t, svc.Create(ctx, &models.Category{Name: "Bebidas"}, nil))
	err := svc.Create(ctx, &models.Category{Name: "bebidas"}, nil)
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.MessageKey != "msg.categorie-controller.insert.NameExist" {
		t.Errorf("duplicate err = %v", err)
	}
}

func TestCategoryRejectsCycles(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(newTestStore(t), newMemoryFiles(), events.NopPublisher{}, discard)

	root := &models.Category{Name: "Alimentación"}
	mustOK(t, svc.Create(ctx, root, nil))
	child := &models.Category{Name: "Conservas", ParentID: &root.ID}
	mustOK(t, svc.Create(ctx, child, nil))
	grandchild := &models.Category{Name: "Atún", ParentID: &child.ID}
	mustOK(t, svc.Create(ctx, grandchild, nil))

	if err := svc.Update(ctx, &models.Category{ID: root.ID, Name: root.Name, ParentID: &root.ID}, nil); !errors.Is(err, ErrCycle) {
		t.Errorf("self parent err = %v, want ErrCycle", err)
	}
	if err := svc.Update(ctx, &models.Category{ID: root.ID, Name: root.Name, ParentID: &grandchild.ID}, nil); !errors.Is(err, ErrCycle) {
		t.Errorf("descendant parent err = %v, want ErrCycle", err)
	}

	got, err := svc.Get(ctx, root.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Subcategories) != 1 || got.Subcategories[0].ID != child.ID {
		t.Errorf("Subcategories = %v", got.Subcategories)
	}
}

func TestCategoryDeleteDetachesChildren(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(newTestStore(t), newMemoryFiles(), events.NopPublisher{}, discard)

	root := &models.Category{Name: "Hogar"}
	mustOK(t, svc.Create(ctx, root, nil))
	child := &models.Category{Name: "Cocina", ParentID: &root.ID}
	mustOK(t, svc.Create(ctx, child, nil))

	mustOK(t, svc.Delete(ctx, root.ID))
	got, err := svc.Get(ctx, child.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ParentID != nil {
		t.Errorf("child ParentID = %d, want nil", *got.ParentID)
	}
}

func TestCategoryTreeWithCycleData(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewCategoryService(store, newMemoryFiles(), events.NopPublisher{}, discard)

	root := &models.Category{Name: "Raíz"}
	mustOK(t, svc.Create(ctx, root, nil))
	leaf := &models.Category{Name: "Hoja", ParentID: &root.ID}
	mustOK(t, svc.Create(ctx, leaf, nil))

	// цикл A <-> B записывается в обход сервиса
	a := &models.Category{Name: "A"}
	mustOK(t, store.Categories().Save(a))
	b := &models.Category{Name: "B", ParentID: &a.ID}
	mustOK(t, store.Categories().Save(b))
	a.ParentID = &b.ID
	mustOK(t, store.Categories().Save(a))

	tree, err := svc.Tree(ctx)
	if err != nil {
		t.Fatal(err)
	}

	seen := map[uint]int{}
	var walk func(nodes []*models.Category)
	walk = func(nodes []*models.Category) {
		for _, n := range nodes {
			seen[n.ID]++
			walk(n.Subcategories)
		}
	}
	walk(tree)

	for _, id := range []uint{root.ID, leaf.ID, a.ID, b.ID} {
		if seen[id] != 1 {
			t.Errorf("category %d appears %d times, want 1", id, seen[id])
		}
	}
}

func TestBuildTreeNesting(t *testing.T) {
	one, two := uint(1), uint(2)
	tree := BuildTree([]models.Category{
		{ID: 1, Name: "root"},
		{ID: 2, Name: "child", ParentID: &one},
		{ID: 3, Name: "grandchild", ParentID: &two},
		{ID: 4, Name: "orphan", ParentID: func() *uint { v := uint(99); return &v }()},
	})
	if len(tree) != 2 {
		t.Fatalf("roots = %d, want 2", len(tree))
	}
	if tree[0].ID != 1 || len(tree[0].Subcategories) != 1 || len(tree[0].Subcategories[0].Subcategories) != 1 {
		t.Errorf("unexpected nesting: %+v", tree[0])
	}
}

