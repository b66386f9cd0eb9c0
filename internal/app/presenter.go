package app

import "github.com/hylla/tablero/internal/domain"

// Presenter executes controller effects.
type Presenter interface {
	Notify(Notification)
	DismissForm(domain.Kind)
}

// Present runs effects against p in order.
func Present(p Presenter, effects []Effect) {
	for _, effect := range effects {
		switch effect := effect.(type) {
		case Notify:
			p.Notify(effect.Notification)
		case DismissForm:
			p.DismissForm(effect.Kind)
		}
	}
}

// LogPresenter reports notifications through a logger, for non-interactive commands.
type LogPresenter struct {
	Logger Logger
}

// Notify logs n at info level, or error level for destructive notifications.
func (p LogPresenter) Notify(n Notification) {
	if p.Logger == nil {
		return
	}
	if n.Variant == VariantDestructive {
		p.Logger.Error(n.Title, "detail", n.Description)
		return
	}
	p.Logger.Info(n.Title, "detail", n.Description)
}

// DismissForm is a no-op without a form.
func (LogPresenter) DismissForm(domain.Kind) {}
