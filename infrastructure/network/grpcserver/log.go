package grpcserver

import (
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/kaspanet/ledgerd/util/panics"
)

var log = logger.RegisterSubSystem("GRPC")
var spawn = panics.GoroutineWrapperFunc(log)
