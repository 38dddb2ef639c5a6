package nn

// Traits is the static capability record of a layer type.
//
// One constant record exists per layer type; it is never mutated. The
// training driver consults it to decide whether to run gradient and backward
// steps at all (SGDSupported plus the Trainable capability) and whether the
// layer's shape descriptor is frozen or populated at runtime (IsDynamic).
type Traits struct {
	IsNeural     bool // layer owns trainable parameters
	IsDense      bool // fully connected layer
	IsConv       bool // convolutional layer
	IsDeconv     bool // deconvolutional layer
	IsStandard   bool // standard (non-RBM) neural layer
	IsRBM        bool // restricted Boltzmann machine
	IsPooling    bool // pooling layer
	IsUnpooling  bool // unpooling layer
	IsTransform  bool // fixed-function transform layer
	IsDynamic    bool // shape descriptor populated at runtime
	PretrainLast bool // participates as last layer in pretraining
	SGDSupported bool // layer may appear in an SGD-trained pipeline
}

var convTraits = Traits{
	IsNeural:     true,
	IsConv:       true,
	IsStandard:   true,
	SGDSupported: true,
}

var dynConvTraits = Traits{
	IsNeural:     true,
	IsConv:       true,
	IsStandard:   true,
	IsDynamic:    true,
	SGDSupported: true,
}

var lcnTraits = Traits{
	IsTransform:  true,
	SGDSupported: true,
}

var dynLCNTraits = Traits{
	IsTransform:  true,
	IsDynamic:    true,
	SGDSupported: true,
}
