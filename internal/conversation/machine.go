package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/i474232898/weather-route-bot/internal/common"
	"github.com/i474232898/weather-route-bot/internal/weather"
	logx "github.com/i474232898/weather-route-bot/pkg/logger"
)

// Aggregator renders the report for a completed route.
type Aggregator interface {
	Aggregate(ctx context.Context, route weather.Route, days int) (string, error)
}

// Machine validates inputs and advances a State. It holds no per-user data:
// Step takes the current state and returns the next one plus the messages to
// send, so it can be driven by any transport.
type Machine struct {
	resolver   weather.GeoResolver
	aggregator Aggregator
	now        func() time.Time
}

func NewMachine(resolver weather.GeoResolver, aggregator Aggregator) *Machine {
	return &Machine{
		resolver:   resolver,
		aggregator: aggregator,
		now:        time.Now,
	}
}

// DaysChoices is the horizon selector shown after the start city.
func DaysChoices() []Choice {
	choices := make([]Choice, 0, len(weather.Horizons))
	for _, h := range weather.Horizons {
		label := fmt.Sprintf("%d days", h)
		if h == 1 {
			label = "1 day"
		}
		choices = append(choices, Choice{Label: label, Value: strconv.Itoa(h)})
	}
	return choices
}

// Step applies ev to st. On rejected input the returned state equals st.
func (m *Machine) Step(ctx context.Context, st State, ev Event) (State, []Action) {
	if st.Stage == "" {
		st.Stage = StageIdle
	}
	st = st.clone()

	switch ev.Kind {
	case EventCommand:
		return m.onCommand(st, ev.Text)
	case EventSelection:
		return m.onSelection(st, ev.Text)
	case EventText:
		return m.onText(ctx, st, ev.Text)
	default:
		return st, nil
	}
}

func (m *Machine) onCommand(st State, cmd string) (State, []Action) {
	switch cmd {
	case CommandStart, CommandHelp:
		return st, []Action{deliver(msgHelp)}
	case CommandWeather:
		next := newRouteState(st.UserID)
		next.UpdatedAt = m.now()
		logx.Debug().Str("user_id", st.UserID).Str("conversation_id", next.ID).Msg("route collection started")
		return next, []Action{prompt(msgEnterStartCity)}
	case CommandCancel:
		if st.IsIdle() {
			return st, []Action{deliver(msgNothingToCancel)}
		}
		logx.Debug().Str("user_id", st.UserID).Str("conversation_id", st.ID).Str("stage", string(st.Stage)).Msg("route abandoned")
		return IdleState(st.UserID), []Action{deliver(msgCancelled)}
	default:
		return st, []Action{deliver(msgUnknownCommand)}
	}
}

// onSelection handles a horizon choice. Selections outside the awaiting-days
// stage, or outside the horizon set, are ignored.
func (m *Machine) onSelection(st State, value string) (State, []Action) {
	if st.Stage != StageAwaitingDays {
		logx.Debug().Str("user_id", st.UserID).Str("stage", string(st.Stage)).Str("selection", value).Msg("ignoring out-of-stage selection")
		return st, nil
	}

	days, err := strconv.Atoi(value)
	if err != nil || !weather.ValidHorizon(days) {
		logx.Debug().Str("user_id", st.UserID).Str("selection", value).Msg("ignoring unknown horizon selection")
		return st, nil
	}

	st.Days = days
	st.Stage = StageAwaitingEndCity
	st.UpdatedAt = m.now()
	return st, []Action{
		deliver(fmt.Sprintf(msgDaysSelected, days)),
		prompt(msgEnterEndCity),
	}
}

func (m *Machine) onText(ctx context.Context, st State, text string) (State, []Action) {
	switch st.Stage {
	case StageAwaitingStartCity:
		return m.onStartCity(ctx, st, text)
	case StageAwaitingDays:
		return st, []Action{promptWithChoices(msgChooseDaysAgain, DaysChoices())}
	case StageAwaitingEndCity:
		return m.onEndCity(ctx, st, text)
	case StageAwaitingIntermediateCities:
		return m.onIntermediateCities(ctx, st, text)
	default:
		return st, []Action{deliver(msgIdleHint)}
	}
}

func (m *Machine) onStartCity(ctx context.Context, st State, text string) (State, []Action) {
	city, rejection := m.checkCity(ctx, st, text)
	if rejection != nil {
		return st, []Action{*rejection}
	}

	st.StartCity = city
	st.Stage = StageAwaitingDays
	st.UpdatedAt = m.now()
	return st, []Action{promptWithChoices(msgChooseDays, DaysChoices())}
}

func (m *Machine) onEndCity(ctx context.Context, st State, text string) (State, []Action) {
	if city := common.NormalizeCity(text); city == st.StartCity {
		logx.Debug().Str("user_id", st.UserID).Str("city", city).Msg("end city equals start city")
		return st, []Action{prompt(msgSameStartAndEnd)}
	}

	city, rejection := m.checkCity(ctx, st, text)
	if rejection != nil {
		return st, []Action{*rejection}
	}

	st.EndCity = city
	st.Stage = StageAwaitingIntermediateCities
	st.UpdatedAt = m.now()
	return st, []Action{prompt(msgEnterIntermediate)}
}

func (m *Machine) onIntermediateCities(ctx context.Context, st State, text string) (State, []Action) {
	cities := parseIntermediates(text)
	if err := checkIntermediates(cities, st.StartCity, st.EndCity); err != nil {
		logx.Debug().Str("user_id", st.UserID).Err(err).Msg("intermediate cities rejected")
		return st, []Action{prompt(msgIntermediateClash)}
	}
	st.IntermediateCities = cities

	days := st.Days
	if days == 0 {
		days = weather.Horizons[0]
	}

	route := weather.NewRoute(st.StartCity, st.IntermediateCities, st.EndCity)
	logx.Info().
		Str("user_id", st.UserID).
		Str("conversation_id", st.ID).
		Str("route", route.Display()).
		Int("days", days).
		Msg("aggregating route forecast")

	var out Action
	report, err := m.aggregator.Aggregate(ctx, route, days)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", st.ID).Msg("route aggregation failed")
		out = deliver(fmt.Sprintf(msgRouteFailed, err))
	} else {
		out = deliver(report)
	}

	// The route is finished whatever the aggregation outcome.
	return IdleState(st.UserID), []Action{out}
}

// checkCity normalizes, validates and resolves a city. It returns the
// normalized name, or the rejection to send when the stage must not advance.
func (m *Machine) checkCity(ctx context.Context, st State, text string) (string, *Action) {
	city, err := normalizeCity(text)
	if err != nil {
		a := prompt(fmt.Sprintf(msgCityError, err))
		return "", &a
	}

	_, err = m.resolver.Resolve(ctx, city)
	if err == nil {
		return city, nil
	}

	var (
		resErr *weather.ResolutionError
		valErr *ValidationError
		a      Action
	)
	switch {
	case errors.Is(err, weather.ErrNotFound):
		logx.Info().Str("user_id", st.UserID).Str("city", city).Str("error_class", weather.ErrorClass(err)).Msg("city not found")
		a = prompt(fmt.Sprintf(msgCityNotFound, weather.Capitalize(city)))
	case errors.As(err, &resErr), errors.As(err, &valErr):
		logx.Warn().Err(err).Str("user_id", st.UserID).Str("city", city).Str("error_class", weather.ErrorClass(err)).Msg("city rejected by provider")
		a = prompt(fmt.Sprintf(msgCityError, err))
	default:
		logx.Error().Err(err).Str("user_id", st.UserID).Str("city", city).Str("error_class", weather.ErrorClass(err)).Msg("city resolution failed")
		a = prompt(fmt.Sprintf(msgGenericError, err))
	}
	return "", &a
}
