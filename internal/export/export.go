// Package export 把作品表导出为 CSV 文件，或在终端里渲染为表格预览。
package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/John-Robertt/RTStats/internal/domain"
	"github.com/John-Robertt/RTStats/internal/infra/fsx"
	"github.com/John-Robertt/RTStats/internal/subject"
	filmtable "github.com/John-Robertt/RTStats/internal/table"
)

// Header 是导出文件的表头；首列是 1 起始的行号，没有列名。
var Header = []string{"", "title", "year", "score", "box office"}

// CSV 按表序输出全部行。未知评分/票房写作 0。
func CSV(t filmtable.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for i, r := range t.Rows() {
		if err := w.Write(cells(i+1, r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV 把 CSV 原子写入 <dir>/<slug>_filmography.csv，返回最终路径。
func WriteCSV(dir string, name subject.Name, t filmtable.Table) (string, error) {
	b, err := CSV(t)
	if err != nil {
		return "", err
	}
	fileName := name.ExportFileName()
	if err := fsx.WriteFileAtomic(dir, fileName, b); err != nil {
		return "", err
	}
	return filepath.Join(filepath.Clean(dir), fileName), nil
}

// Preview 在终端里渲染作品表（与 CSV 同列，未知值显示为 "-"）。
func Preview(w io.Writer, t filmtable.Table) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "Title", "Year", "Score", "Box Office"})
	t.Each(func(idx int, r domain.FilmRecord) {
		score := "-"
		if r.Score.Known {
			score = strconv.Itoa(r.Score.Value) + "%"
		}
		box := "-"
		if r.BoxOffice.Known {
			box = strconv.FormatInt(r.BoxOffice.Value, 10)
		}
		tw.AppendRow(table.Row{idx, r.Title, r.Year, score, box})
	})
	tw.Render()
}

func cells(idx int, r domain.FilmRecord) []string {
	return []string{
		strconv.Itoa(idx),
		r.Title,
		strconv.Itoa(r.Year),
		strconv.Itoa(r.Score.Int()),
		strconv.FormatInt(r.BoxOffice.Int(), 10),
	}
}
