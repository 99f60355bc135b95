package copyformat

import "context"

// Writer — один из способов записи в буфер обмена.
type Writer interface {
	Write(ctx context.Context, text string) error
}

// CopyResult — ровно один из двух исходов: успех либо сообщение для
// пользователя. За эту границу ошибки не пробрасываются.
type CopyResult struct {
	OK      bool
	Message string
}

// Copier сначала пробует основной (платформенный) способ записи, затем
// легаси-фолбэк через временное невидимое текстовое поле. Фолбэк может быть
// nil.
type Copier struct {
	primary  Writer
	fallback Writer
}

func NewCopier(primary, fallback Writer) *Copier {
	return &Copier{primary: primary, fallback: fallback}
}

func (c *Copier) Copy(ctx context.Context, text string) CopyResult {
	if c.primary != nil {
		if err := c.primary.Write(ctx, text); err == nil {
			return CopyResult{OK: true, Message: "link copied to clipboard"}
		}
	}

	if c.fallback != nil {
		if err := c.fallback.Write(ctx, text); err == nil {
			return CopyResult{OK: true, Message: "link copied to clipboard"}
		}
	}

	return CopyResult{OK: false, Message: "copy failed, please copy manually"}
}
