package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/speedrun --output domain/speedrun --outpkg speedrunmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/subscription --output domain/subscription --outpkg subscriptionmock --filename repository_mock.go
