package feed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/store"
	"github.com/feral-file/ff-event-feed/internal/store/schema"
)

const (
	// Consistency warning kinds
	warningMissingEvent = "missing_event"
	warningTimingDrift  = "timing_drift"
)

// pageRow is a membership or grouped entry row reduced to what a page needs
type pageRow struct {
	key         string
	eventID     string
	groupID     string
	startMillis int64
	endMillis   int64
	addedAt     time.Time
	similar     int
}

// heal is a deferred repair of a (feed, group) pair or a single membership
type heal struct {
	feedID  string
	groupID string
	eventID string
	timing  *domain.EventTiming
}

// QueryFeed reads one page of a feed
func (s *service) QueryFeed(ctx context.Context, query Query) (*Page, error) {
	feedID, err := domain.ParseFeedID(query.FeedID)
	if err != nil {
		return nil, err
	}

	direction, err := domain.ParseDirection(query.Direction)
	if err != nil {
		return nil, err
	}

	grouped := true
	if query.Grouped != nil {
		grouped = *query.Grouped
	}

	if err := s.authorize(ctx, feedID, query); err != nil {
		return nil, err
	}

	pageSize := clampPageSize(query.PageSize)

	filter := store.FeedPageFilter{
		FeedID:    feedID.String(),
		Direction: direction,
		Limit:     pageSize + 1,
	}

	switch {
	case query.Cursor != "":
		cursor, err := domain.DecodeFeedCursor(query.Cursor)
		if err != nil {
			return nil, err
		}
		if cursor.Direction != direction || cursor.Grouped != grouped {
			return nil, fmt.Errorf("%w: cursor was issued for another view of the feed", domain.ErrInvalidCursor)
		}
		if query.Before != nil && query.Before.UnixMilli() != cursor.Boundary {
			return nil, fmt.Errorf("%w: before does not match the cursor session", domain.ErrInvalidCursor)
		}
		filter.Boundary = cursor.Boundary
		filter.AfterStart = cursor.Start
		filter.AfterKey = cursor.Key
	case query.Before != nil:
		filter.Boundary = query.Before.UnixMilli()
	default:
		filter.Boundary = s.clock.Now().UnixMilli()
	}

	rows, err := s.loadRows(ctx, filter, grouped)
	if err != nil {
		return nil, err
	}

	page := &Page{
		FeedID:    feedID,
		Direction: direction,
		Grouped:   grouped,
		Items:     []Item{},
		Before:    time.UnixMilli(filter.Boundary).UTC(),
	}

	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		page.NextCursor = domain.FeedCursor{
			Direction: direction,
			Grouped:   grouped,
			Boundary:  filter.Boundary,
			Start:     last.startMillis,
			Key:       last.key,
		}.Encode()
	}

	items, heals, err := s.hydrate(ctx, feedID, direction, filter.Boundary, grouped, rows)
	if err != nil {
		return nil, err
	}
	page.Items = items

	s.selfHeal(ctx, heals)

	return page, nil
}

// authorize rejects reads of another user's personal feed unless it is public
func (s *service) authorize(ctx context.Context, feedID domain.FeedID, query Query) error {
	owner, ok := feedID.OwnerUserID()
	if !ok || query.Privileged || query.Caller == owner {
		return nil
	}

	user, err := s.store.GetUserByID(ctx, owner)
	if err != nil {
		return err
	}
	if user == nil || !user.PublicFeed {
		return fmt.Errorf("%w: %s", domain.ErrFeedAccessDenied, feedID)
	}
	return nil
}

// loadRows reads one keyset page of raw memberships or grouped entries
func (s *service) loadRows(ctx context.Context, filter store.FeedPageFilter, grouped bool) ([]pageRow, error) {
	if grouped {
		entries, err := s.store.ListGroupedFeedEntries(ctx, filter)
		if err != nil {
			return nil, err
		}
		rows := make([]pageRow, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, pageRow{
				key:         e.SimilarityGroupID,
				eventID:     e.PrimaryEventID,
				groupID:     e.SimilarityGroupID,
				startMillis: e.EventStartTime,
				endMillis:   e.EventEndTime,
				addedAt:     e.AddedAt,
				similar:     e.SimilarEventsCount,
			})
		}
		return rows, nil
	}

	memberships, err := s.store.ListFeedMemberships(ctx, filter)
	if err != nil {
		return nil, err
	}
	rows := make([]pageRow, 0, len(memberships))
	for _, m := range memberships {
		rows = append(rows, pageRow{
			key:         m.EventID,
			eventID:     m.EventID,
			groupID:     m.GroupID(),
			startMillis: m.EventStartTime,
			endMillis:   m.EventEndTime,
			addedAt:     m.AddedAt,
		})
	}
	return rows, nil
}

// hydrate joins events and authors into the rows. Rows whose event vanished or whose
// authoritative timing no longer matches the requested side of the boundary are dropped
// and returned as repairs.
func (s *service) hydrate(
	ctx context.Context,
	feedID domain.FeedID,
	direction domain.Direction,
	boundary int64,
	grouped bool,
	rows []pageRow,
) ([]Item, []heal, error) {
	if len(rows) == 0 {
		return []Item{}, nil, nil
	}

	eventIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		eventIDs = append(eventIDs, r.eventID)
	}
	events, err := s.store.GetEventsByIDs(ctx, eventIDs)
	if err != nil {
		return nil, nil, err
	}
	eventsByID := make(map[string]*schema.Event, len(events))
	userIDs := make([]string, 0, len(events))
	for i := range events {
		eventsByID[events[i].ID] = &events[i]
		userIDs = append(userIDs, events[i].UserID)
	}

	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, nil, err
	}
	usersByID := make(map[string]*schema.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}

	now := s.clock.Now()
	items := make([]Item, 0, len(rows))
	var heals []heal

	for _, r := range rows {
		fields := []zap.Field{
			zap.String("feedID", feedID.String()),
			zap.String("eventID", r.eventID),
			zap.String("similarityGroupID", r.groupID),
		}

		event, ok := eventsByID[r.eventID]
		if !ok {
			logger.ConsistencyWarnCtx(ctx, warningMissingEvent, fields...)
			if grouped {
				heals = append(heals, heal{feedID: feedID.String(), groupID: r.groupID})
			}
			continue
		}

		timing := domain.NewEventTiming(event.StartDateTime, event.EndDateTime)
		if timing.StartMillis() != r.startMillis || timing.EndMillis() != r.endMillis {
			logger.ConsistencyWarnCtx(ctx, warningTimingDrift, append(fields,
				zap.Int64("storedStart", r.startMillis),
				zap.Int64("storedEnd", r.endMillis),
				zap.Int64("eventStart", timing.StartMillis()),
				zap.Int64("eventEnd", timing.EndMillis()))...)

			h := heal{feedID: feedID.String(), groupID: r.groupID}
			if !grouped {
				h.eventID = r.eventID
				h.timing = &timing
			}
			heals = append(heals, h)

			upcoming := timing.EndMillis() >= boundary
			if upcoming != (direction == domain.DirectionUpcoming) {
				continue
			}
		}

		item := Item{
			EventID:            event.ID,
			SimilarityGroupID:  event.GroupID(),
			Name:               event.Name,
			Description:        event.Description,
			Location:           event.Location,
			StartDateTime:      timing.Start,
			EndDateTime:        timing.End,
			CreatedAt:          event.CreatedAt.UTC(),
			Visibility:         domain.Visibility(event.Visibility),
			Metadata:           s.decodeMetadata(ctx, event.ID, event.Metadata),
			AddedAt:            r.addedAt.UTC(),
			HasEnded:           timing.HasEnded(now),
			SimilarEventsCount: r.similar,
		}
		if user, ok := usersByID[event.UserID]; ok {
			item.Author = &Author{
				ID:          user.ID,
				Username:    user.Username,
				DisplayName: user.DisplayName,
			}
		}
		items = append(items, item)
	}

	return items, heals, nil
}

// selfHeal repairs rows flagged while reading. Failures are logged and never fail the read.
func (s *service) selfHeal(ctx context.Context, heals []heal) {
	done := make(map[store.FeedGroupKey]struct{}, len(heals))
	for _, h := range heals {
		if h.timing != nil {
			err := s.store.UpdateMembershipTiming(ctx, h.feedID, h.eventID,
				h.timing.StartMillis(), h.timing.EndMillis(), h.timing.HasEnded(s.clock.Now()))
			if err != nil {
				logger.WarnCtx(ctx, "Failed to repair membership timing",
					zap.String("feedID", h.feedID),
					zap.String("eventID", h.eventID),
					zap.Error(err))
				continue
			}
		}

		if h.groupID == "" {
			continue
		}
		key := store.FeedGroupKey{FeedID: h.feedID, SimilarityGroupID: h.groupID}
		if _, ok := done[key]; ok {
			continue
		}
		done[key] = struct{}{}

		if _, err := s.materializer.Upsert(ctx, s.store, h.feedID, h.groupID); err != nil {
			logger.WarnCtx(ctx, "Failed to rematerialize grouped feed entry",
				zap.String("feedID", h.feedID),
				zap.String("similarityGroupID", h.groupID),
				zap.Error(err))
		}
	}
}

// decodeMetadata parses stored metadata, nil when absent or unreadable
func (s *service) decodeMetadata(ctx context.Context, eventID string, raw datatypes.JSON) *domain.EventMetadata {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var metadata domain.EventMetadata
	if err := s.json.Unmarshal(raw, &metadata); err != nil {
		logger.WarnCtx(ctx, "Failed to decode event metadata", zap.String("eventID", eventID), zap.Error(err))
		return nil
	}
	return &metadata
}

// clampPageSize applies the default and maximum page sizes
func clampPageSize(size int) int {
	switch {
	case size <= 0:
		return domain.DEFAULT_PAGE_SIZE
	case size > domain.MAX_PAGE_SIZE:
		return domain.MAX_PAGE_SIZE
	default:
		return size
	}
}
