package tasks

import (
	"go.uber.org/zap"
)

// Deps are the services task handlers need. A nil News or Mailer leaves the
// corresponding task unregistered.
type Deps struct {
	Logger           *zap.Logger
	News             NewsRefresher
	Mailer           Mailer
	CoordinatorEmail string
}

// DefineTasks registers all available tasks
func DefineTasks(r *Registry, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	logInfo := &LogInfoTaskDef{logger: logger}
	r.Register(logInfo.TaskID(), logInfo.HandleExecution)

	if deps.News != nil {
		refresh := &RefreshNewsTaskDef{refresher: deps.News}
		r.Register(refresh.TaskID(), refresh.HandleExecution)
	}

	if deps.Mailer != nil && deps.CoordinatorEmail != "" {
		notify := &NotifyEnquiryTaskDef{mailer: deps.Mailer, coordinator: deps.CoordinatorEmail}
		r.Register(notify.TaskID(), notify.HandleExecution)
	}
}
