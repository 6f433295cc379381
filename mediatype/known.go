package mediatype

// Media types recognised by the detection chain.
//
//nolint:gochecknoglobals // immutable lookup values shared by the signature table and callers.
var (
	// Images.
	ImageJPEG = New("image", "jpeg")
	ImagePNG  = New("image", "png")
	ImageGIF  = New("image", "gif")
	ImageWebP = New("image", "webp")
	ImageBMP  = New("image", "bmp")
	ImageTIFF = New("image", "tiff")

	// Audio.
	AudioMPEG = New("audio", "mpeg")
	AudioMP4  = New("audio", "mp4")
	AudioWAV  = New("audio", "vnd.wave")
	AudioOGG  = New("audio", "ogg")
	AudioFLAC = New("audio", "x-flac")

	// Video.
	VideoMP4       = New("video", "mp4")
	VideoQuickTime = New("video", "quicktime")
	Video3GPP      = New("video", "3gpp")
	Video3GPP2     = New("video", "3gpp2")
	VideoMatroska  = New("video", "x-matroska")
	VideoWebM      = New("video", "webm")

	// Documents.
	ApplicationPDF = New("application", "pdf")
	ApplicationRTF = New("application", "rtf")
	TextPlain      = New("text", "plain")

	// Archives.
	ApplicationZIP  = New("application", "zip")
	ApplicationGZIP = New("application", "gzip")

	// OctetStream is the fallback for content no probe or signature recognises.
	OctetStream = New("application", "octet-stream")
)
