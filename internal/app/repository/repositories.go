package repository

import (
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
)

type (
	CategoryRepository = DocumentRepository[model.Category]
	ScheduleRepository = DocumentRepository[model.Schedule]
	ContractRepository = DocumentRepository[model.Contract]
	PaymentRepository  = DocumentRepository[model.Payment]
	FarmerRepository   = DocumentRepository[model.Farmer]
	FieldRepository    = DocumentRepository[model.Field]
	WorkerRepository   = DocumentRepository[model.Worker]
	LookupRepository   = DocumentRepository[model.Lookup]
)

// Repositories bundles every document repository over one store. Inside a
// transaction build a fresh bundle from the transactional store.
type Repositories struct {
	Categories    CategoryRepository
	Schedules     ScheduleRepository
	Contracts     ContractRepository
	Payments      PaymentRepository
	Farmers       FarmerRepository
	Fields        FieldRepository
	Workers       WorkerRepository
	PaymentGroups LookupRepository
	CropTypes     LookupRepository
	WorkTypes     LookupRepository
}

func New(store docstore.Store) *Repositories {
	return &Repositories{
		Categories:    newDocumentRepository[model.Category](store, model.CollectionCategories, "category"),
		Schedules:     newDocumentRepository[model.Schedule](store, model.CollectionSchedules, "schedule"),
		Contracts:     newDocumentRepository[model.Contract](store, model.CollectionContracts, "contract"),
		Payments:      newDocumentRepository[model.Payment](store, model.CollectionPayments, "payment"),
		Farmers:       newDocumentRepository[model.Farmer](store, model.CollectionFarmers, "farmer"),
		Fields:        newDocumentRepository[model.Field](store, model.CollectionFields, "field"),
		Workers:       newDocumentRepository[model.Worker](store, model.CollectionWorkers, "worker"),
		PaymentGroups: newDocumentRepository[model.Lookup](store, model.CollectionPaymentGroups, "paymentGroup"),
		CropTypes:     newDocumentRepository[model.Lookup](store, model.CollectionCropTypes, "cropType"),
		WorkTypes:     newDocumentRepository[model.Lookup](store, model.CollectionWorkTypes, "workType"),
	}
}

// Lookup returns the repository for a lookup kind.
func (r *Repositories) Lookup(kind model.LookupKind) (LookupRepository, bool) {
	switch kind {
	case model.LookupPaymentGroup:
		return r.PaymentGroups, true
	case model.LookupCropType:
		return r.CropTypes, true
	case model.LookupWorkType:
		return r.WorkTypes, true
	}
	return nil, false
}
