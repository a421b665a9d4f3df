// Package recordstore implementa el lado servidor del record store: interpreta el
// sobre {"action","payload"} y lo aplica sobre un libro de hojas (repository.Workbook).
package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tailorflow/internal/application/dto"
	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
	"github.com/jhoicas/tailorflow/internal/domain/repository"
	"github.com/jhoicas/tailorflow/pkg/logger"
)

// DefaultLockWait espera máxima por el lock de petición.
const DefaultLockWait = 10 * time.Second

// Observer recibe eventos para métricas. Las implementaciones deben ser seguras para uso concurrente.
type Observer interface {
	ObserveRequest(action string, ok bool, elapsed time.Duration)
	LockBypassed()
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, bool, time.Duration) {}
func (nopObserver) LockBypassed()                              {}

// Option configura el Service.
type Option func(*Service)

// WithLockWait cambia la espera máxima del lock.
func WithLockWait(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lockWait = d
		}
	}
}

// WithObserver registra el observador de métricas.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service record store sobre un Workbook.
// Las peticiones se serializan con un lock de espera acotada: si la espera vence,
// la petición continúa sin lock y dos updateOrder simultáneos pueden pisarse.
type Service struct {
	wb       repository.Workbook
	lock     *requestLock
	lockWait time.Duration
	observer Observer
	now      func() time.Time
	log      *logger.Logger
}

// NewService construye el servicio. No toca el libro; llamar Setup al arrancar.
func NewService(wb repository.Workbook, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		wb:       wb,
		lock:     newRequestLock(),
		lockWait: DefaultLockWait,
		observer: nopObserver{},
		now:      time.Now,
		log:      log.Named("recordstore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ── Setup ─────────────────────────────────────────────────────────────────────

// Setup crea las hojas que falten con su encabezado y agrega el encabezado a las hojas vacías.
func (s *Service) Setup(ctx context.Context) error {
	return s.inTx(ctx, func(wb repository.Workbook) error {
		for _, def := range definitions {
			ok, err := wb.HasSheet(ctx, def.name)
			if err != nil {
				return err
			}
			if !ok {
				if err := wb.CreateSheet(ctx, def.name); err != nil {
					return err
				}
				if err := wb.AppendRow(ctx, def.name, def.headers); err != nil {
					return err
				}
				s.log.Info().Str("sheet", def.name).Msg("hoja creada")
				continue
			}
			rows, err := wb.Values(ctx, def.name)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				if err := wb.AppendRow(ctx, def.name, def.headers); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// inTx ejecuta fn en una transacción si el backend las soporta.
func (s *Service) inTx(ctx context.Context, fn func(wb repository.Workbook) error) error {
	if tx, ok := s.wb.(repository.TxRunner); ok {
		return tx.RunInTx(ctx, fn)
	}
	return fn(s.wb)
}

// ── Dispatch ──────────────────────────────────────────────────────────────────

// Handle procesa el cuerpo crudo de una petición y devuelve la respuesta a serializar.
// Nunca devuelve error: toda falla viaja en StoreResponse.Error.
func (s *Service) Handle(ctx context.Context, body []byte) dto.StoreResponse {
	start := time.Now()

	if s.lock.tryLock(ctx, s.lockWait) {
		defer s.lock.unlock()
	} else {
		s.observer.LockBypassed()
		s.log.Warn().Dur("wait", s.lockWait).Msg("lock no disponible, la petición continúa sin lock")
	}

	action := "unknown"
	resp := s.handle(ctx, body, &action)
	s.observer.ObserveRequest(action, resp.Error == "", time.Since(start))
	return resp
}

func (s *Service) handle(ctx context.Context, body []byte, action *string) dto.StoreResponse {
	if ok, err := s.wb.HasSheet(ctx, SheetUsers); err != nil {
		return s.fail(err)
	} else if !ok {
		if err := s.Setup(ctx); err != nil {
			return s.fail(fmt.Errorf("setup: %w", err))
		}
	}

	cmd, err := dto.DecodeCommand(body)
	if err != nil {
		s.log.Debug().Err(err).Msg("petición inválida")
		return dto.StoreResponse{Error: err.Error()}
	}
	*action = string(cmd.Action())

	resp, err := s.Dispatch(ctx, cmd)
	if err != nil {
		return s.fail(err)
	}
	return resp
}

// Dispatch aplica un comando ya decodificado.
func (s *Service) Dispatch(ctx context.Context, cmd dto.Command) (dto.StoreResponse, error) {
	switch c := cmd.(type) {
	case dto.SignupCommand:
		return s.signup(ctx, c)
	case dto.LoginCommand:
		return s.login(ctx, c)
	case dto.GetOrdersCommand:
		return sheetData[entity.Order](ctx, s, SheetOrders)
	case dto.CreateOrderCommand:
		return s.createOrder(ctx, c.Order)
	case dto.UpdateOrderCommand:
		return s.updateOrder(ctx, c.Order)
	case dto.GetCustomersCommand:
		return sheetData[entity.Customer](ctx, s, SheetCustomers)
	case dto.CreateCustomerCommand:
		return s.createCustomer(ctx, c.Customer)
	default:
		return dto.StoreResponse{}, dto.ErrUnknownAction
	}
}

func (s *Service) fail(err error) dto.StoreResponse {
	var authErr *domain.AuthError
	var nf *domain.NotFoundError
	switch {
	case errors.As(err, &authErr), errors.As(err, &nf), errors.Is(err, domain.ErrInvalidInput):
		// Respuestas esperadas del protocolo.
	default:
		s.log.Error().Err(err).Msg("record store")
	}
	return dto.StoreResponse{Error: err.Error()}
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func (s *Service) signup(ctx context.Context, c dto.SignupCommand) (dto.StoreResponse, error) {
	email := strings.TrimSpace(c.Email)
	if email == "" || c.Password == "" {
		return dto.StoreResponse{}, fmt.Errorf("%w: email y password son obligatorios", domain.ErrInvalidInput)
	}

	rows, err := s.wb.Values(ctx, SheetUsers)
	if err != nil {
		return dto.StoreResponse{}, err
	}
	for _, row := range dataRows(rows) {
		if cell(row, colUserEmail) == email {
			return dto.StoreResponse{}, domain.NewAuthError(domain.MsgUserExists)
		}
	}

	user := entity.User{
		ID:    "u" + uuid.NewString(),
		Name:  strings.TrimSpace(c.Name),
		Email: email,
		Role:  entity.RoleAdmin,
	}
	row := []string{user.ID, user.Name, user.Email, c.Password, user.Role, s.timestamp()}
	if err := s.wb.AppendRow(ctx, SheetUsers, row); err != nil {
		return dto.StoreResponse{}, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("usuario registrado")
	return dto.StoreResponse{Success: true, User: &user}, nil
}

func (s *Service) login(ctx context.Context, c dto.LoginCommand) (dto.StoreResponse, error) {
	rows, err := s.wb.Values(ctx, SheetUsers)
	if err != nil {
		return dto.StoreResponse{}, err
	}
	for _, row := range dataRows(rows) {
		if cell(row, colUserEmail) == c.Email && cell(row, colUserPassword) == c.Password {
			return dto.StoreResponse{Success: true, User: &entity.User{
				ID:    cell(row, colUserID),
				Name:  cell(row, colUserName),
				Email: cell(row, colUserEmail),
				Role:  cell(row, colUserRole),
			}}, nil
		}
	}
	return dto.StoreResponse{}, domain.NewAuthError(domain.MsgInvalidCredentials)
}

// ── Órdenes y clientes ────────────────────────────────────────────────────────

// sheetData devuelve json_data de cada fila; ignora las filas que no decodifican como T.
func sheetData[T any](ctx context.Context, s *Service, sheet string) (dto.StoreResponse, error) {
	rows, err := s.wb.Values(ctx, sheet)
	if err != nil {
		return dto.StoreResponse{}, err
	}
	items := make([]json.RawMessage, 0, len(rows))
	for i, row := range dataRows(rows) {
		raw := cell(row, colRecordJSON)
		var probe T
		if err := json.Unmarshal([]byte(raw), &probe); err != nil {
			s.log.Debug().Str("sheet", sheet).Int("row", i+1).Err(err).Msg("fila ignorada")
			continue
		}
		items = append(items, json.RawMessage(raw))
	}
	data, err := json.Marshal(items)
	if err != nil {
		return dto.StoreResponse{}, err
	}
	return dto.StoreResponse{Success: true, Data: data}, nil
}

func (s *Service) orderRow(o entity.Order) ([]string, []byte, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return nil, nil, fmt.Errorf("serializar orden: %w", err)
	}
	return []string{o.ID, string(raw), string(o.Status), o.DueDate, s.timestamp()}, raw, nil
}

func (s *Service) createOrder(ctx context.Context, o entity.Order) (dto.StoreResponse, error) {
	if err := o.Validate(); err != nil {
		return dto.StoreResponse{}, err
	}
	row, raw, err := s.orderRow(o)
	if err != nil {
		return dto.StoreResponse{}, err
	}
	if err := s.wb.AppendRow(ctx, SheetOrders, row); err != nil {
		return dto.StoreResponse{}, err
	}
	return dto.StoreResponse{Success: true, Data: raw}, nil
}

func (s *Service) updateOrder(ctx context.Context, o entity.Order) (dto.StoreResponse, error) {
	if err := o.Validate(); err != nil {
		return dto.StoreResponse{}, err
	}
	row, _, err := s.orderRow(o)
	if err != nil {
		return dto.StoreResponse{}, err
	}
	err = s.inTx(ctx, func(wb repository.Workbook) error {
		rows, err := wb.Values(ctx, SheetOrders)
		if err != nil {
			return err
		}
		for i := 1; i < len(rows); i++ {
			if cell(rows[i], colRecordID) == o.ID {
				return wb.SetRow(ctx, SheetOrders, i, row)
			}
		}
		return domain.NewNotFoundError("Order", o.ID)
	})
	if err != nil {
		return dto.StoreResponse{}, err
	}
	return dto.StoreResponse{Success: true}, nil
}

func (s *Service) createCustomer(ctx context.Context, c entity.Customer) (dto.StoreResponse, error) {
	if err := c.Validate(); err != nil {
		return dto.StoreResponse{}, err
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return dto.StoreResponse{}, fmt.Errorf("serializar cliente: %w", err)
	}
	row := []string{c.ID, string(raw), c.Phone, c.Name, s.timestamp()}
	if err := s.wb.AppendRow(ctx, SheetCustomers, row); err != nil {
		return dto.StoreResponse{}, err
	}
	return dto.StoreResponse{Success: true, Data: raw}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// dataRows omite el encabezado.
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
