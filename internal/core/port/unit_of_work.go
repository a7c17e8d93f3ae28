package port

import "context"

// UnitOfWork is a pattern that allows to run a read-modify-write on assets in one transaction
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(uow UnitOfWork) error) error
	AssetRepo() AssetRepository
}
