package models

// Role определяет, к каким разделам есть доступ у пользователя
type Role string

const (
	RoleAdmin   Role = "ADMIN"   // Панель администратора
	RoleManager Role = "MANAGER" // Справочники: регионы, провинции, супермаркеты, локации, категории
	RoleUser    Role = "USER"    // Обычный пользователь
)

// Valid проверяет, что роль известна системе
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}
