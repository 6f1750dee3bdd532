package engine

import (
	"github.com/algrissette/uvavine/internal/database"
	"github.com/algrissette/uvavine/internal/engine/actors"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine owns the actor hierarchy. Each aggregate concern gets one actor;
// handlers reach them through the PIDs exposed here.
type Engine struct {
	system          *actor.ActorSystem
	userPID         *actor.PID
	blogPID         *actor.PID
	commentPID      *actor.PID
	notificationPID *actor.PID
}

// NewEngine spawns the actors against the given store.
func NewEngine(system *actor.ActorSystem, store database.Store, metrics *utils.MetricsCollector) *Engine {
	userProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(store, metrics)
	})
	blogProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewBlogActor(store, metrics)
	})
	commentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(store, metrics)
	})
	notificationProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewNotificationActor(store, metrics)
	})

	return &Engine{
		system:          system,
		userPID:         system.Root.Spawn(userProps),
		blogPID:         system.Root.Spawn(blogProps),
		commentPID:      system.Root.Spawn(commentProps),
		notificationPID: system.Root.Spawn(notificationProps),
	}
}

func (e *Engine) GetUserActor() *actor.PID         { return e.userPID }
func (e *Engine) GetBlogActor() *actor.PID         { return e.blogPID }
func (e *Engine) GetCommentActor() *actor.PID      { return e.commentPID }
func (e *Engine) GetNotificationActor() *actor.PID { return e.notificationPID }
