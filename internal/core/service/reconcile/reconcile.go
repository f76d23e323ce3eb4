package reconcile

import (
	"log/slog"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
)

type reconcileService struct {
	storage port.ObjectStorage
	uow     port.UnitOfWork
	logger  *slog.Logger
}

// NewReconcileService creates the handler that removes catalog rows left
// behind by a partially failed batch delete
func NewReconcileService(storage port.ObjectStorage, uow port.UnitOfWork, logger *slog.Logger) port.MessageService {
	return &reconcileService{
		storage: storage,
		uow:     uow,
		logger:  logger,
	}
}
