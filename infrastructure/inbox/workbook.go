package inbox

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

// ParseWorkbook lê todas as abas de uma planilha Excel; abas sem cabeçalho são puladas.
// Com mais de uma aba o source_name recebe o nome da aba ("prices.xlsx#Europe").
// Os valores vêm crus, sem a formatação de exibição (0.0305 e não "0,03 €").
func ParseWorkbook(sourceName, provider string, data []byte) ([]*domain.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao abrir a planilha %s", sourceName)
	}
	defer f.Close()

	sheets := f.GetSheetList()

	var tables []*domain.Table
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.Wrapf(err, "erro ao ler a aba %s de %s", sheet, sourceName)
		}

		name := sourceName
		if len(sheets) > 1 {
			name = fmt.Sprintf("%s#%s", sourceName, sheet)
		}

		if table := tableFromRecords(name, provider, rows); table != nil {
			tables = append(tables, table)
		}
	}

	if len(tables) == 0 {
		return nil, errors.Wrap(ErrEmptyTable, sourceName)
	}

	return tables, nil
}

// tableFromRecords usa a primeira linha não vazia como cabeçalho; nil quando não há nenhuma
func tableFromRecords(sourceName, provider string, records [][]string) *domain.Table {
	table := &domain.Table{SourceName: sourceName, Provider: provider}

	for _, record := range records {
		if table.Headers == nil {
			if !isEmptyRecord(record) {
				table.Headers = record
			}
			continue
		}

		cells := make(map[string]any, len(table.Headers))
		for i, header := range table.Headers {
			if i < len(record) {
				cells[header] = record[i]
			}
		}
		table.Rows = append(table.Rows, cells)
	}

	if table.Headers == nil {
		return nil
	}
	return table
}
