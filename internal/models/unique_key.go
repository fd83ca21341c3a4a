package models

import (
	"strings"

	"golang.org/x/text/cases"
)

// UniqueKey приводит значение уникального поля к виду для сравнения без учета регистра.
// UPPER в sqlite меняет только ASCII, поэтому ключ считается в Go и хранится в отдельной колонке.
func UniqueKey(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}
