package linker

import (
	"strconv"

	"go.uber.org/zap"
)

func zapSection(idx int) zap.Field { return zap.Int("section", idx) }

func zapError(err error) zap.Field { return zap.Error(err) }

func zapAddr(key string, addr uint64) zap.Field {
	return zap.String(key, "0x"+strconv.FormatUint(addr, 16))
}
