package repository

import (
	"sync"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/store"
)

// JSONInvoiceRepository stores invoices in invoices.json
type JSONInvoiceRepository struct {
	store *store.Store
	mu    sync.Mutex
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(s *store.Store) InvoiceRepository {
	return &JSONInvoiceRepository{store: s}
}

func (r *JSONInvoiceRepository) load() ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.store.Read(store.FileInvoices, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// Create creates a new invoice
func (r *JSONInvoiceRepository) Create(invoice *models.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	invoices, err := r.load()
	if err != nil {
		return err
	}

	invoices = append(invoices, *invoice)
	return r.store.Write(store.FileInvoices, invoices)
}

// FindByID finds an invoice by ID
func (r *JSONInvoiceRepository) FindByID(id string) (*models.Invoice, error) {
	invoices, err := r.load()
	if err != nil {
		return nil, err
	}

	for i := range invoices {
		if invoices[i].ID == id {
			return &invoices[i], nil
		}
	}
	return nil, ErrNotFound
}

// Update rewrites an existing invoice
func (r *JSONInvoiceRepository) Update(invoice *models.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	invoices, err := r.load()
	if err != nil {
		return err
	}

	for i := range invoices {
		if invoices[i].ID == invoice.ID {
			invoices[i] = *invoice
			return r.store.Write(store.FileInvoices, invoices)
		}
	}
	return ErrNotFound
}

// ListByOrganizationIDs lists invoices for any of the organizations
func (r *JSONInvoiceRepository) ListByOrganizationIDs(orgIDs []uint64) ([]models.Invoice, error) {
	if len(orgIDs) == 0 {
		return []models.Invoice{}, nil
	}

	invoices, err := r.load()
	if err != nil {
		return nil, err
	}

	wanted := make(map[uint64]struct{}, len(orgIDs))
	for _, id := range orgIDs {
		wanted[id] = struct{}{}
	}

	result := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if _, ok := wanted[inv.OrganizationID]; ok {
			result = append(result, inv)
		}
	}
	return result, nil
}
