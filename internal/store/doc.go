// Package store defines the persistence interfaces for the application's
// domain entities along with the shared error vocabulary used by every
// implementation.
//
// Each entity gets its own store interface (UserStore, QuoteStore,
// GenerationRequestStore, FavoriteStore, DailyQuoteStore). Implementations
// live under internal/platform and translate driver-level failures into the
// sentinel errors declared in this package, so callers can branch with
// errors.Is without importing driver packages.
//
// Every interface carries a WithTx method returning a store bound to an open
// *sql.Tx. Combined with RunInTransaction this lets services compose
// multi-store operations atomically:
//
//	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
//	    txQuotes := quoteStore.WithTx(tx)
//	    txRequests := requestStore.WithTx(tx)
//	    if err := txQuotes.CreateBatch(ctx, quotes); err != nil {
//	        return err
//	    }
//	    return txRequests.UpdateStatus(ctx, requestID, domain.RequestStatusCompleted, "")
//	})
package store
