// Package export writes persisted leads to spreadsheets and reads raw leads
// back from them.
package export

import (
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// Sheet names of the export workbook.
const (
	LeadsSheet    = "Google Maps"
	ProjectsSheet = "Codeur"
)

var leadHeader = []string{
	"Entreprise", "Catégorie", "Adresse", "Téléphone", "Site web", "Note Google",
	"Avis", "Taille", "Score", "Raisonnement", "Message", "Problèmes", "Date",
}

var projectHeader = []string{"Titre", "URL", "Score", "Message", "Description", "Date"}

// Workbook builds the export workbook. Leads keep their given order.
func Workbook(leads []model.LeadRecord, projects []model.ProjectRecord) (*xlsx.File, error) {
	f := xlsx.NewFile()

	ls, err := f.AddSheet(LeadsSheet)
	if err != nil {
		return nil, eris.Wrap(err, "export: add leads sheet")
	}
	addStrings(ls.AddRow(), leadHeader...)
	for _, l := range leads {
		row := ls.AddRow()
		addStrings(row, l.BusinessName, l.Category, l.Address, l.Phone, l.Website)
		row.AddCell().SetFloat(l.Rating)
		row.AddCell().SetInt(l.ReviewCount)
		addStrings(row, string(l.EstimatedSize))
		row.AddCell().SetInt(l.Score)
		addStrings(row, l.Reasoning, l.Message, issues(l.WebsiteSignals), stamp(l.FetchedAt))
	}

	ps, err := f.AddSheet(ProjectsSheet)
	if err != nil {
		return nil, eris.Wrap(err, "export: add projects sheet")
	}
	addStrings(ps.AddRow(), projectHeader...)
	for _, p := range projects {
		row := ps.AddRow()
		addStrings(row, p.Title, p.URL)
		if p.Score != nil {
			row.AddCell().SetInt(*p.Score)
		} else {
			row.AddCell()
		}
		addStrings(row, p.MessageGenerated, p.Description, stamp(p.FetchedAt))
	}
	return f, nil
}

// Write encodes the export workbook to w.
func Write(w io.Writer, leads []model.LeadRecord, projects []model.ProjectRecord) error {
	f, err := Workbook(leads, projects)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "export: write workbook")
}

// Save writes the export workbook to path.
func Save(path string, leads []model.LeadRecord, projects []model.ProjectRecord) error {
	f, err := Workbook(leads, projects)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Save(path), "export: save workbook")
}

func addStrings(row *xlsx.Row, values ...string) {
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func issues(s *model.WebsiteSignals) string {
	if s == nil {
		return ""
	}
	return strings.Join(s.Issues, "; ")
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ReadRawLeads reads raw leads from the first sheet of an XLSX file. The
// first row is a header naming the columns; recognized names are
// company_name (or entreprise), city (ville), sector (secteur) and source.
// Other columns are kept in RawData.
func ReadRawLeads(path string) ([]model.RawLead, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: file has no sheet")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	header := rowToStrings(sheet.Rows[0])
	var leads []model.RawLead
	for i, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		lead := model.RawLead{RawData: map[string]any{}}
		for j, name := range header {
			if j >= len(cells) {
				break
			}
			v := strings.TrimSpace(cells[j])
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "company_name", "entreprise", "nom":
				lead.CompanyName = v
			case "city", "ville":
				lead.City = v
			case "sector", "secteur":
				lead.Sector = v
			case "source":
				lead.Source = v
			default:
				if v != "" {
					lead.RawData[name] = v
				}
			}
		}
		if lead.CompanyName == "" {
			return nil, eris.Errorf("xlsx: row %d has no company name", i+2)
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
