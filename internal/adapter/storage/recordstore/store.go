package recordstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mklnz/offer-relay/internal/core/domain"
)

// Store implements port.RecordStore against the REST record store.
type Store struct {
	client *client
	schema Schema
}

// New builds the adapter. The schema is validated here so a misconfigured
// mapping aborts boot instead of surfacing per request.
func New(baseURL, token string, schema Schema) (*Store, error) {
	if baseURL == "" {
		return nil, errors.New("record store base URL required")
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Store{client: newClient(baseURL, token), schema: schema}, nil
}

func (s *Store) UnitByID(ctx context.Context, unitID string) (*domain.InventoryUnit, error) {
	var rec record
	err := s.client.do(ctx, http.MethodGet, s.schema.UnitsTable+"/"+url.PathEscape(unitID), nil, nil, &rec)
	if errors.Is(err, errRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	product, err := field(rec, s.schema.UnitProductField)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", unitID, err)
	}
	productName, err := product.AsString()
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", unitID, err)
	}

	qty, err := field(rec, s.schema.UnitQuantityField)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", unitID, err)
	}
	n, err := qty.AsNumber()
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", unitID, err)
	}

	return &domain.InventoryUnit{
		ID:          rec.ID,
		ProductName: productName,
		Quantity:    int(n),
	}, nil
}

func (s *Store) CreateSale(ctx context.Context, sale domain.SaleRecord) error {
	body := recordCreate{Records: []recordFields{{Fields: map[string]any{
		s.schema.SaleOrderField:   sale.OrderID,
		s.schema.SaleSellerField:  sale.SellerID,
		s.schema.SaleUnitField:    sale.InventoryUnitID,
		s.schema.SalePriceField:   sale.Price,
		s.schema.SaleCreatedField: sale.CreatedAt.Format(time.RFC3339),
	}}}}
	return s.client.do(ctx, http.MethodPost, s.schema.SalesTable, nil, body, nil)
}

func (s *Store) SaleExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	q := byFormula(s.schema.SaleOrderField, orderID)
	q.Set("maxRecords", "1")

	var list recordList
	if err := s.client.do(ctx, http.MethodGet, s.schema.SalesTable, q, nil, &list); err != nil {
		return false, err
	}
	return len(list.Records) > 0, nil
}

func (s *Store) SetUnitQuantity(ctx context.Context, unitID string, quantity int) error {
	body := recordFields{Fields: map[string]any{
		s.schema.UnitQuantityField: quantity,
	}}
	return s.client.do(ctx, http.MethodPatch, s.schema.UnitsTable+"/"+url.PathEscape(unitID), nil, body, nil)
}

func (s *Store) MarkOrderMatched(ctx context.Context, orderID string) error {
	body := recordFields{Fields: map[string]any{
		s.schema.OrderStatusField: s.schema.OrderMatchedValue,
	}}
	return s.client.do(ctx, http.MethodPatch, s.schema.OrdersTable+"/"+url.PathEscape(orderID), nil, body, nil)
}

func (s *Store) AppendMessage(ctx context.Context, msg domain.OutboundMessage) error {
	body := recordCreate{Records: []recordFields{{Fields: map[string]any{
		s.schema.MsgOrderField:   msg.OrderID,
		s.schema.MsgSellerField:  msg.SellerID,
		s.schema.MsgUnitField:    msg.InventoryUnitID,
		s.schema.MsgChannelField: msg.ChannelID,
		s.schema.MsgMessageField: msg.MessageID,
		s.schema.MsgPriceField:   msg.DecidedPrice,
	}}}}
	return s.client.do(ctx, http.MethodPost, s.schema.MessagesTable, nil, body, nil)
}

func (s *Store) MessagesForOrder(ctx context.Context, orderID string) ([]domain.OutboundMessage, error) {
	var list recordList
	if err := s.client.do(ctx, http.MethodGet, s.schema.MessagesTable, byFormula(s.schema.MsgOrderField, orderID), nil, &list); err != nil {
		return nil, err
	}

	out := make([]domain.OutboundMessage, 0, len(list.Records))
	for _, rec := range list.Records {
		msg, err := s.decodeMessage(rec)
		if err != nil {
			return nil, fmt.Errorf("registry row %s: %w", rec.ID, err)
		}
		out = append(out, msg)
	}
	return out, nil
}

func (s *Store) decodeMessage(rec record) (domain.OutboundMessage, error) {
	var msg domain.OutboundMessage
	var err error

	ids := []struct {
		name string
		dst  *string
	}{
		{s.schema.MsgOrderField, &msg.OrderID},
		{s.schema.MsgSellerField, &msg.SellerID},
		{s.schema.MsgUnitField, &msg.InventoryUnitID},
	}
	for _, m := range ids {
		fv, ferr := field(rec, m.name)
		if ferr != nil {
			return msg, ferr
		}
		if *m.dst, err = fv.AsID(); err != nil {
			return msg, fmt.Errorf("field %q: %w", m.name, err)
		}
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{s.schema.MsgChannelField, &msg.ChannelID},
		{s.schema.MsgMessageField, &msg.MessageID},
	}
	for _, m := range strs {
		fv, ferr := field(rec, m.name)
		if ferr != nil {
			return msg, ferr
		}
		if *m.dst, err = fv.AsString(); err != nil {
			return msg, fmt.Errorf("field %q: %w", m.name, err)
		}
	}

	fv, ferr := field(rec, s.schema.MsgPriceField)
	if ferr != nil {
		return msg, ferr
	}
	if msg.DecidedPrice, err = fv.AsNumber(); err != nil {
		return msg, fmt.Errorf("field %q: %w", s.schema.MsgPriceField, err)
	}

	return msg, nil
}
