package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"

	"ticketlogger/server/internal/events"
	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/repository"
	"ticketlogger/server/internal/storage"
)

// CategoryService управляет деревом категорий и их изображениями
type CategoryService struct {
	store     repository.Store
	files     storage.FileStorage
	publisher events.Publisher
	logger    *log.Logger
}

func NewCategoryService(store repository.Store, files storage.FileStorage, publisher events.Publisher, logger *log.Logger) *CategoryService {
	return &CategoryService{store: store, files: files, publisher: publisher, logger: logger}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.store.WithContext(ctx).Categories().FindAll()
}

// Get возвращает категорию вместе с прямыми подкатегориями
func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	repo := s.store.WithContext(ctx).Categories()
	category, err := repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	children, err := repo.FindChildren(id)
	if err != nil {
		return nil, err
	}
	for i := range children {
		category.Subcategories = append(category.Subcategories, &children[i])
	}
	return category, nil
}

// Create сохраняет категорию и, если передан, файл изображения.
// Если транзакция не прошла, уже сохраненный файл удаляется.
func (s *CategoryService) Create(ctx context.Context, category *models.Category, upload *multipart.FileHeader) error {
	conflict := &ConflictError{Field: "name", Value: category.Name, MessageKey: "msg.categorie-controller.insert.NameExist"}
	var stored string
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		exists, err := tx.Categories().ExistsByName(category.Name)
		if err != nil {
			return fmt.Errorf("ошибка проверки названия категории: %w", err)
		}
		if exists {
			return conflict
		}
		if category.ParentID != nil {
			if err := checkParent(tx, *category.ParentID); err != nil {
				return err
			}
		}
		if upload != nil {
			if stored, err = s.saveImage(ctx, upload); err != nil {
				return err
			}
			category.Image = &stored
		}
		return mapSaveError(tx.Categories().Save(category), conflict)
	})
	if err != nil {
		if stored != "" {
			s.removeImage(ctx, stored)
			category.Image = nil
		}
		return err
	}
	s.logger.Printf("✅ Категория создана: %s, ID=%d", category.Name, category.ID)
	publish(ctx, s.publisher, s.logger, "category", events.ActionCreated, category.ID, category.Name)
	return nil
}

// Update меняет название и родителя. Новое изображение заменяет старое,
// старый файл удаляется после коммита.
func (s *CategoryService) Update(ctx context.Context, category *models.Category, upload *multipart.FileHeader) error {
	conflict := &ConflictError{Field: "name", Value: category.Name, MessageKey: "msg.categorie-controller.update.NameExist"}
	var stored string
	var replaced *string
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Categories().FindByID(category.ID)
		if err != nil {
			return err
		}
		exists, err := tx.Categories().ExistsByNameAndNotID(category.Name, category.ID)
		if err != nil {
			return fmt.Errorf("ошибка проверки названия категории: %w", err)
		}
		if exists {
			return conflict
		}
		if category.ParentID != nil {
			if err := checkAncestry(tx, category.ID, *category.ParentID); err != nil {
				return err
			}
		}

		existing.Name = category.Name
		existing.ParentID = category.ParentID
		existing.Parent = nil
		if upload != nil {
			if stored, err = s.saveImage(ctx, upload); err != nil {
				return err
			}
			if existing.HasImage() {
				replaced = existing.Image
			}
			existing.Image = &stored
		}
		if err := mapSaveError(tx.Categories().Save(existing), conflict); err != nil {
			return err
		}
		*category = *existing
		return nil
	})
	if err != nil {
		if stored != "" {
			s.removeImage(ctx, stored)
		}
		return err
	}
	if replaced != nil {
		s.removeImage(ctx, *replaced)
	}
	s.logger.Printf("✏️ Категория обновлена: ID=%d", category.ID)
	publish(ctx, s.publisher, s.logger, "category", events.ActionUpdated, category.ID, category.Name)
	return nil
}

// Delete отвязывает подкатегории, удаляет запись и затем файл изображения
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	var deleted *models.Category
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		category, err := tx.Categories().FindByID(id)
		if err != nil {
			return err
		}
		children, err := tx.Categories().FindChildren(id)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			if err := tx.Categories().DetachChildren(id); err != nil {
				return fmt.Errorf("ошибка отвязки подкатегорий %d: %w", id, err)
			}
			s.logger.Printf("🔗 Отвязано подкатегорий: %d (родитель ID=%d)", len(children), id)
		}
		if err := mapDeleteError(tx.Categories().DeleteByID(id)); err != nil {
			return err
		}
		deleted = category
		return nil
	})
	if err != nil {
		return err
	}
	if deleted.HasImage() {
		s.removeImage(ctx, *deleted.Image)
	}
	s.logger.Printf("🗑️ Категория удалена: ID=%d", id)
	publish(ctx, s.publisher, s.logger, "category", events.ActionDeleted, id, deleted.Name)
	return nil
}

// Tree строит дерево категорий. Узлы, которые недостижимы от корней
// (цикл в данных), добавляются как корни, каждый узел встречается один раз.
func (s *CategoryService) Tree(ctx context.Context) ([]*models.Category, error) {
	all, err := s.store.WithContext(ctx).Categories().FindAll()
	if err != nil {
		return nil, err
	}
	return BuildTree(all), nil
}

// BuildTree собирает дерево из плоского списка по parent_id
func BuildTree(all []models.Category) []*models.Category {
	byID := make(map[uint]*models.Category, len(all))
	for i := range all {
		all[i].Parent = nil
		all[i].Subcategories = nil
		byID[all[i].ID] = &all[i]
	}

	children := make(map[uint][]*models.Category)
	var roots []*models.Category
	for i := range all {
		c := &all[i]
		if c.ParentID != nil && *c.ParentID != c.ID && byID[*c.ParentID] != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
			continue
		}
		roots = append(roots, c)
	}

	visited := make(map[uint]bool, len(all))
	var attach func(node *models.Category)
	attach = func(node *models.Category) {
		visited[node.ID] = true
		for _, child := range children[node.ID] {
			if visited[child.ID] {
				continue
			}
			node.Subcategories = append(node.Subcategories, child)
			attach(child)
		}
	}
	for _, root := range roots {
		attach(root)
	}
	for i := range all {
		if !visited[all[i].ID] {
			roots = append(roots, &all[i])
			attach(&all[i])
		}
	}
	return roots
}

func (s *CategoryService) saveImage(ctx context.Context, upload *multipart.FileHeader) (string, error) {
	name, err := s.files.SaveFile(ctx, upload)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFile) {
			return "", fmt.Errorf("%w: %s", ErrInvalidImage, upload.Filename)
		}
		return "", fmt.Errorf("ошибка сохранения изображения: %w", err)
	}
	return name, nil
}

// removeImage удаляет файл; ошибка не отменяет уже выполненную операцию
func (s *CategoryService) removeImage(ctx context.Context, name string) {
	if err := s.files.DeleteFile(ctx, name); err != nil {
		s.logger.Printf("⚠️ Не удалось удалить изображение %s: %v", name, err)
	}
}

func checkParent(tx repository.Store, parentID uint) error {
	if _, err := tx.Categories().FindByID(parentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: категория %d", ErrInvalidReference, parentID)
		}
		return err
	}
	return nil
}

// checkAncestry запрещает назначать родителем саму категорию или ее потомка
func checkAncestry(tx repository.Store, id, parentID uint) error {
	if parentID == id {
		return ErrCycle
	}
	visited := map[uint]bool{}
	current := parentID
	for {
		if current == id {
			return ErrCycle
		}
		if visited[current] {
			return nil
		}
		visited[current] = true

		node, err := tx.Categories().FindByID(current)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: категория %d", ErrInvalidReference, current)
			}
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		current = *node.ParentID
	}
}
