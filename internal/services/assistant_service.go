package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/assistant"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/llm"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"gorm.io/gorm"
)

// Model tags recorded with every answer.
const (
	ModeloConsulta     = "municipales-consulta"
	ModeloNoEncontrado = "municipales-no-encontrado"
	ModeloFallback     = "simulado-fallback"
	ModeloSimulado     = "simulado"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
	maxExpiryWindow     = 365
)

type Completer interface {
	Configured() bool
	Complete(ctx context.Context, system, user string) (*llm.Completion, error)
}

type MunicipalLookup interface {
	Find(ctx context.Context, rut string) (*models.DatosMunicipales, error)
}

type AssistantService struct {
	db        *gorm.DB
	kb        *assistant.Knowledge
	llm       Completer
	municipal MunicipalLookup
	filter    *ModerationService
	now       func() time.Time
}

func NewAssistantService(db *gorm.DB, kb *assistant.Knowledge, completer Completer, municipal MunicipalLookup, filter *ModerationService) *AssistantService {
	return &AssistantService{
		db:        db,
		kb:        kb,
		llm:       completer,
		municipal: municipal,
		filter:    filter,
		now:       time.Now,
	}
}

// Answer replies to a citizen question. Expiry questions from a caller with
// a rut are answered from the municipal record and never reach the LLM.
func (s *AssistantService) Answer(ctx context.Context, question string, userID uint, rut string) (*dto.ChatResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if ok, reason := s.filter.FilterContent(question); !ok {
		if reason == "inappropriate_language" {
			return nil, ErrInappropriate
		}
		return nil, newError(ErrValidation, s.filter.GetRejectionMessage(reason))
	}

	var respuesta, modelo string
	if rut != "" && assistant.IsExpiryQuestion(question) {
		respuesta, modelo = s.answerExpiry(ctx, question, rut)
	} else {
		respuesta, modelo = s.answerGeneral(ctx, question)
	}

	if userID != 0 {
		conv := models.IaConversacion{UsuarioID: userID, Pregunta: question, Respuesta: respuesta, Modelo: modelo}
		if err := s.db.WithContext(ctx).Create(&conv).Error; err != nil {
			slog.Warn("failed to save conversation", "user_id", userID, "error", err)
		}
	}

	return &dto.ChatResponse{
		Pregunta:  question,
		Respuesta: respuesta,
		Modelo:    modelo,
		Tipo:      "exito",
		Timestamp: s.now().UTC(),
	}, nil
}

func (s *AssistantService) answerExpiry(ctx context.Context, question, rut string) (string, string) {
	datos, err := s.municipal.Find(ctx, rut)
	if err != nil {
		slog.Warn("municipal lookup failed", "error", err)
		return s.kb.CannedAnswer(question), ModeloFallback
	}
	if datos == nil || datos.LicenciaFechaVencimiento == nil {
		return s.kb.Messages.NoLicense, ModeloNoEncontrado
	}
	vence := *datos.LicenciaFechaVencimiento
	dias := DaysUntil(vence, s.now())
	return assistant.ExpiryAnswer(datos.Nombre, datos.LicenciaEstado, vence, dias), ModeloConsulta
}

func (s *AssistantService) answerGeneral(ctx context.Context, question string) (string, string) {
	if s.llm == nil || !s.llm.Configured() {
		return s.kb.CannedAnswer(question), ModeloSimulado
	}
	out, err := s.llm.Complete(ctx, s.kb.SystemPrompt, question)
	if err != nil {
		slog.Warn("completion chain failed, using canned answer", "error", err)
		return s.kb.CannedAnswer(question), ModeloFallback
	}
	return out.Text, out.Model
}

func (s *AssistantService) SuggestedQuestions(context string) []string {
	return s.kb.SuggestedQuestions(context)
}

// DetectUpcomingExpirations lists active licences expiring within daysAhead
// days, soonest first.
func (s *AssistantService) DetectUpcomingExpirations(ctx context.Context, daysAhead int) ([]dto.Vencimiento, error) {
	if daysAhead < 1 || daysAhead > maxExpiryWindow {
		return nil, ErrInvalidDays
	}
	now := s.now().UTC()
	until := now.Add(time.Duration(daysAhead) * 24 * time.Hour)

	var rows []models.DatosMunicipales
	err := s.db.WithContext(ctx).
		Where("licencia_estado <> ? AND licencia_fecha_vencimiento IS NOT NULL", models.LicenciaSuspendida).
		Where("licencia_fecha_vencimiento > ? AND licencia_fecha_vencimiento <= ?", now, until).
		Order("licencia_fecha_vencimiento").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query expirations: %w", err)
	}

	ruts := make([]string, 0, len(rows))
	for _, r := range rows {
		ruts = append(ruts, r.RUT)
	}
	users := map[string]models.User{}
	if len(ruts) > 0 {
		var found []models.User
		if err := s.db.WithContext(ctx).Where("rut IN ?", ruts).Find(&found).Error; err != nil {
			return nil, fmt.Errorf("failed to load users: %w", err)
		}
		for _, u := range found {
			users[u.RUT] = u
		}
	}

	out := []dto.Vencimiento{}
	for _, r := range rows {
		if !r.LicenciaActiva() {
			continue
		}
		vence := *r.LicenciaFechaVencimiento
		dias := DaysUntil(vence, now)
		if dias <= 0 || dias > daysAhead {
			continue
		}
		item := dto.Vencimiento{
			RUT:              r.RUT,
			Nombre:           r.Nombre,
			NumeroLicencia:   r.LicenciaNumero,
			FechaVencimiento: vence,
			DiasRestantes:    dias,
			Recordatorio:     assistant.Reminder(r.Nombre, vence, dias),
		}
		if u, ok := users[r.RUT]; ok {
			id := u.ID
			item.UsuarioID = &id
			item.Email = u.Email
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FechaVencimiento.Before(out[j].FechaVencimiento)
	})
	return out, nil
}

// FAQs returns the active FAQ rows, or the built-in list when the table
// cannot be read.
func (s *AssistantService) FAQs(ctx context.Context) []models.IaFaq {
	faqs, err := s.activeFAQs(ctx)
	if err != nil {
		slog.Warn("failed to load faqs, serving defaults", "error", err)
		return s.DefaultFAQs()
	}
	return faqs
}

// FAQ returns one active FAQ by id.
func (s *AssistantService) FAQ(ctx context.Context, id uint) (*models.IaFaq, error) {
	var faq models.IaFaq
	err := s.db.WithContext(ctx).Where("activa = ?", true).First(&faq, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFAQNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load faq: %w", err)
	}
	return &faq, nil
}

// SearchFAQs matches term against question, answer and keywords, ignoring
// case and accents.
func (s *AssistantService) SearchFAQs(ctx context.Context, term string) ([]models.IaFaq, error) {
	term = assistant.Normalize(strings.TrimSpace(term))
	if term == "" {
		return nil, ErrSearchTermRequired
	}
	out := []models.IaFaq{}
	for _, f := range s.FAQs(ctx) {
		if faqMatches(f, term) {
			out = append(out, f)
		}
	}
	return out, nil
}

func faqMatches(f models.IaFaq, term string) bool {
	if strings.Contains(assistant.Normalize(f.Pregunta), term) || strings.Contains(assistant.Normalize(f.Respuesta), term) {
		return true
	}
	for _, kw := range f.PalabrasClave {
		if assistant.Normalize(kw) == term {
			return true
		}
	}
	return false
}

func (s *AssistantService) activeFAQs(ctx context.Context) ([]models.IaFaq, error) {
	faqs := []models.IaFaq{}
	err := s.db.WithContext(ctx).
		Where("activa = ?", true).
		Order("categoria, pregunta").
		Find(&faqs).Error
	return faqs, err
}

// DefaultFAQs converts the embedded FAQ list to rows.
func (s *AssistantService) DefaultFAQs() []models.IaFaq {
	out := make([]models.IaFaq, 0, len(s.kb.FAQs))
	for i, f := range s.kb.FAQs {
		out = append(out, models.IaFaq{
			ID:            uint(i + 1),
			Pregunta:      f.Pregunta,
			Respuesta:     f.Respuesta,
			Categoria:     f.Categoria,
			PalabrasClave: models.Keywords(f.PalabrasClave),
			Activa:        true,
		})
	}
	return out
}

// SeedFAQs inserts the default FAQs into an empty table.
func (s *AssistantService) SeedFAQs(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.IaFaq{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	faqs := s.DefaultFAQs()
	for i := range faqs {
		faqs[i].ID = 0
	}
	return s.db.WithContext(ctx).Create(&faqs).Error
}

// History returns the user's latest exchanges, newest first.
func (s *AssistantService) History(ctx context.Context, userID uint, limit int) ([]models.IaConversacion, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	convs := []models.IaConversacion{}
	err := s.db.WithContext(ctx).
		Where("usuario_id = ?", userID).
		Order("creado_en DESC, id DESC").
		Limit(limit).
		Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return convs, nil
}
