package utils

import (
	"strings"
	"time"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

// ParseDate interpreta um parâmetro de data opcional (YYYY-MM-DD).
// Vazio devolve nil, nil: quem chama decide o valor padrão.
func ParseDate(dateStr string) (*time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil, nil
	}

	date, err := domain.ParseCalendarDate(dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}
