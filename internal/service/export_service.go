package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/YasmaniJob/beeclass/internal/models"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type rosterReader interface {
	Students() []models.Student
	Staff() []models.Staff
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportRequest selects the slice of the roster to export.
type ExportRequest struct {
	Grade   string `form:"grade"`
	Section string `form:"section"`
	Format  string `form:"format"`
}

// ExportFile is a rendered document ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// ExportService renders rosters held by the data provider as CSV or PDF.
type ExportService struct {
	roster    rosterReader
	renderers map[string]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(roster rosterReader, logger *zap.Logger, csv, pdf renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("Generado por beeclass")
	}
	return &ExportService{
		roster:    roster,
		renderers: map[string]renderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		logger:    logger,
		now:       time.Now,
	}
}

// Students exports the student roster, optionally narrowed to one grade and section.
func (s *ExportService) Students(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	r, err := s.renderer(req.Format)
	if err != nil {
		return nil, err
	}
	students := s.roster.Students()
	filtered := students[:0]
	for _, st := range students {
		if req.Grade != "" && st.Grade != req.Grade {
			continue
		}
		if req.Section != "" && st.Section != req.Section {
			continue
		}
		filtered = append(filtered, st)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].FullName() < filtered[j].FullName() })

	data := export.Dataset{
		Title:   rosterTitle("Nómina de estudiantes", req.Grade, req.Section),
		Headers: []string{"N°", "Documento", "Apellidos y nombres", "Grado", "Sección", "NEE"},
		Rows:    make([][]string, 0, len(filtered)),
	}
	for i, st := range filtered {
		nee := "No"
		if st.SpecialNeeds {
			nee = "Sí"
		}
		data.Rows = append(data.Rows, []string{
			strconv.Itoa(i + 1),
			strings.TrimSpace(st.DocumentType + " " + st.DocumentNumber),
			st.FullName(),
			st.Grade,
			st.Section,
			nee,
		})
	}
	return s.render(ctx, r, "estudiantes", req, data)
}

// Staff exports the staff roster with one row per assigned section.
func (s *ExportService) Staff(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	r, err := s.renderer(req.Format)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{
		Title:   rosterTitle("Asignaciones del personal", req.Grade, req.Section),
		Headers: []string{"N°", "Apellidos y nombres", "Rol", "Grado", "Sección", "Función", "Áreas"},
	}
	staff := s.roster.Staff()
	sort.SliceStable(staff, func(i, j int) bool { return staff[i].Surnames+staff[i].Names < staff[j].Surnames+staff[j].Names })
	for _, member := range staff {
		for _, grade := range groupAssignments(member.Assignments) {
			if req.Grade != "" && grade.Grade != req.Grade {
				continue
			}
			for _, sec := range grade.Sections {
				if req.Section != "" && sec.Section != req.Section {
					continue
				}
				data.Rows = append(data.Rows, []string{
					strconv.Itoa(len(data.Rows) + 1),
					strings.TrimSpace(member.Surnames + ", " + member.Names),
					string(member.Role),
					grade.Grade,
					sec.Section,
					string(sec.MainRole),
					strings.Join(sec.AreaIDs, ", "),
				})
			}
		}
	}
	return s.render(ctx, r, "personal", req, data)
}

func (s *ExportService) renderer(format string) (renderer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("formato no soportado: %q", format))
	}
	return r, nil
}

func (s *ExportService) render(ctx context.Context, r renderer, prefix string, req ExportRequest, data export.Dataset) (*ExportFile, error) {
	payload, err := r.Render(data)
	if err != nil {
		s.logger.Error("render export failed", zap.String("export", prefix), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo generar la exportación")
	}
	return &ExportFile{
		Filename:    s.filename(prefix, req, r.Extension()),
		ContentType: r.ContentType(),
		Data:        payload,
		Rows:        len(data.Rows),
	}, nil
}

func (s *ExportService) filename(prefix string, req ExportRequest, ext string) string {
	parts := []string{prefix}
	for _, p := range []string{req.Grade, req.Section} {
		if p != "" {
			parts = append(parts, sanitizeFilename(p))
		}
	}
	parts = append(parts, s.now().Format("20060102"))
	return strings.Join(parts, "_") + "." + ext
}

func rosterTitle(base, grade, section string) string {
	if grade == "" {
		return base
	}
	return strings.TrimSpace(fmt.Sprintf("%s - %s %s", base, grade, section))
}

func sanitizeFilename(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
