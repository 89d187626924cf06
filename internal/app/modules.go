package app

import (
	"github.com/vk/factorgrid/internal/rules"
	"github.com/vk/factorgrid/modules/arithmetic"
	"github.com/vk/factorgrid/modules/categorical"
	"github.com/vk/factorgrid/modules/clamp"
	"github.com/vk/factorgrid/modules/equality"
	"github.com/vk/factorgrid/modules/gamma"
	"github.com/vk/factorgrid/modules/gaussian"
)

// coreModules is the default set of compiled-in node and rule libraries. An
// App created without an explicit module list registers all of these.
var coreModules = []rules.Module{
	&clamp.Module{},
	&gaussian.Module{},
	&gamma.Module{},
	&categorical.Module{},
	&equality.Module{},
	&arithmetic.Module{},
}
