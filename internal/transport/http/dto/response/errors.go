package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Success: false,
		Error:   "invalid request format",
	}

	ErrMissingURL = ErrorResponse{
		Success: false,
		Error:   "image url is required",
	}

	ErrDuplicateMeme = ErrorResponse{
		Success: false,
		Error:   "this meme already exists",
	}

	ErrMemeNotFound = ErrorResponse{
		Success: false,
		Error:   "meme not found",
	}

	ErrInternal = ErrorResponse{
		Success: false,
		Error:   "internal server error",
	}
)
