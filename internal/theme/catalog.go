package theme

var genericTitles = []string{"Um Conto Especial", "A História de Hoje", "Palavras ao Vento"}

var genericElements = Elements{
	Characters: []string{"uma pessoa comum num dia extraordinário"},
	Settings:   []string{"numa cidade familiar que de repente parece estranha"},
	Conflicts:  []string{"uma decisão que muda tudo"},
	Twists:     []string{"nada é o que parece"},
}

var catalog = map[ID]Theme{
	Romance: {
		ID:             Romance,
		Label:          "Romance",
		FallbackTitles: []string{"O Encontro Inesperado", "Cartas de Amor", "A Promessa do Farol"},
		Elements: Elements{
			Characters: []string{"uma bibliotecária tímida e um escritor viajante", "dois bailarinos rivais que se apaixonam", "um florista cético e uma otimista incurável", "um astrónomo e uma artista que se encontram sob as estrelas", "um chef de cozinha e uma crítica gastronómica", "dois vizinhos que se detestam mas se apaixonam"},
			Settings:   []string{"numa pequena livraria em Lisboa", "nos bastidores de uma ópera em Paris", "numa estufa de plantas raras durante uma tempestade", "num observatório abandonado numa colina", "num mercado de flores ao amanhecer", "num elevador avariado durante horas"},
			Conflicts:  []string{"um mal-entendido causado por uma carta não entregue", "a rivalidade profissional que se transforma em paixão", "um segredo do passado que ameaça separá-los", "a partida iminente de um deles para outro país", "famílias que se opõem ao relacionamento", "um ex que reaparece no pior momento"},
			Twists:     []string{"descobrem que as suas famílias já se conheciam", "um objeto perdido que os une de forma inesperada", "a personagem que parecia ser a vilã estava a tentar juntá-los", "o encontro não foi uma coincidência", "um deles estava a escrever sobre o outro sem saber", "a pessoa que os apresentou tinha um plano secreto"},
		},
	},
	Suspense: {
		ID:             Suspense,
		Label:          "Suspense",
		FallbackTitles: []string{"Sombras na Noite", "O Segredo da Casa Velha", "A Última Testemunha"},
		Elements: Elements{
			Characters: []string{"um detetive reformado e uma jovem jornalista", "uma herdeira que suspeita da sua família", "um hacker que descobre uma conspiração", "um psicólogo que ouve um segredo perigoso", "um guarda de museu que testemunha algo estranho", "uma testemunha que não consegue lembrar-se do que viu"},
			Settings:   []string{"numa mansão isolada durante um fim de semana de nevoeiro", "nos arquivos poeirentos de um jornal antigo", "numa cidade digital controlada por uma corporação", "num consultório elegante com vista para a cidade à noite", "num comboio noturno que atravessa a Europa", "numa ilha privada sem comunicações"},
			Conflicts:  []string{"uma morte que todos acreditam ser um acidente", "uma mensagem codificada encontrada num local inesperado", "alguém está a apagar as provas digitais do crime", "o paciente desaparece após a confissão", "um objeto valioso desaparece em circunstâncias impossíveis", "testemunhas começam a mudar as suas histórias"},
			Twists:     []string{"a vítima não é quem todos pensavam", "o verdadeiro culpado é a pessoa menos suspeita", "a conspiração é muito maior do que se imaginava", "o detetive descobre uma ligação pessoal com o caso", "não houve crime algum, mas algo pior", "a investigação era uma armadilha desde o início"},
		},
	},
	Fantasia: {
		ID:             Fantasia,
		Label:          "Fantasia",
		FallbackTitles: []string{"O Reino Perdido", "A Feiticeira da Serra", "Dragões de Cristal"},
		Elements: Elements{
			Characters: []string{"um aprendiz de feiticeiro com medo de magia", "uma caçadora de dragões que se torna amiga de um", "um ladrão que rouba um artefacto amaldiçoado", "a última elfa numa cidade de humanos", "um ferreiro que forja espadas mágicas sem saber", "uma princesa que foge do seu reino encantado"},
			Settings:   []string{"numa cidade flutuante acima das nuvens", "numa floresta onde as árvores sussurram segredos", "nas ruínas de uma antiga civilização de gigantes", "num mercado que vende itens mágicos", "numa torre que existe em múltiplas dimensões", "num reino subterrâneo iluminado por cristais"},
			Conflicts:  []string{"uma profecia que prevê a destruição do reino", "a magia está a desaparecer do mundo", "um portal para um mundo sombrio foi aberto", "o rei foi enfeitiçado e ninguém acredita no herói", "criaturas míticas começam a invadir o mundo humano", "um artefacto poderoso foi dividido e escondido"},
			Twists:     []string{"o vilão é o antigo herói do reino", "a maldição é uma bênção disfarçada", "o dragão não é o monstro, mas o guardião", "a magia não desapareceu, apenas mudou de forma", "o herói é o verdadeiro herdeiro do trono", "o mundo real é que é a ilusão"},
		},
	},
	Drama: {
		ID:             Drama,
		Label:          "Drama",
		FallbackTitles: []string{"Lágrimas Silenciosas", "O Peso do Passado", "Antes do Adeus"},
		Elements: Elements{
			Characters: []string{"uma mãe que reencontra o filho que deu para adoção", "dois irmãos separados por uma herança", "um músico que perdeu a audição", "uma professora que descobre um segredo sobre um aluno", "um médico que enfrenta um dilema ético", "um pai que tenta reconectar-se com a filha adulta"},
			Settings:   []string{"numa pequena aldeia portuguesa durante o Verão", "num hospital durante uma noite de Natal", "numa casa de família após um funeral", "num estúdio de gravação abandonado", "numa escola secundária nos últimos dias de aulas", "num café onde costumavam encontrar-se"},
			Conflicts:  []string{"um segredo de família que vem à tona", "a necessidade de perdoar algo imperdoável", "escolher entre o dever e o coração", "lidar com uma perda irreparável", "enfrentar as consequências de uma mentira antiga", "decidir se revela uma verdade dolorosa"},
			Twists:     []string{"a pessoa que julgavam culpada era inocente", "o segredo já era conhecido por todos menos por um", "a reconciliação acontece de forma inesperada", "o perdão vem de onde menos se esperava", "a verdade é mais complexa do que parecia", "o final feliz não é o que se esperava"},
		},
	},
	Aventura: {
		ID:             Aventura,
		Label:          "Aventura",
		FallbackTitles: []string{"A Expedição Impossível", "Terras Desconhecidas", "O Mapa Secreto"},
		Elements: Elements{
			Characters: []string{"um cartógrafo que descobre um mapa impossível", "uma pilota de avião e um arqueólogo", "um marinheiro que encontra uma ilha que não existe", "uma guia de montanha e um cientista", "um explorador urbano que encontra uma cidade secreta", "uma mergulhadora que descobre ruínas submarinas"},
			Settings:   []string{"numa expedição à Amazónia", "nos Himalaias durante uma tempestade de neve", "num deserto que esconde uma civilização perdida", "nas profundezas do oceano Atlântico", "nos túneis esquecidos sob Lisboa", "numa caverna de cristal no interior de um vulcão"},
			Conflicts:  []string{"uma corrida contra o tempo antes que o local seja destruído", "rivais que querem chegar primeiro ao tesouro", "condições climáticas extremas que ameaçam a expedição", "um membro da equipa que os trai", "uma descoberta que não deveria ser revelada", "uma maldição que protege o local"},
			Twists:     []string{"o tesouro não é o que procuravam", "o mapa estava errado de propósito", "a civilização perdida ainda existe", "o verdadeiro perigo vem de dentro da equipa", "a descoberta muda a história da humanidade", "o local é um portal para outro mundo"},
		},
	},
	Misterio: {
		ID:             Misterio,
		Label:          "Mistério",
		FallbackTitles: []string{"O Enigma do Museu", "Pegadas na Areia", "A Chave de Bronze"},
		Elements: Elements{
			Characters: []string{"um bibliotecário que encontra um livro amaldiçoado", "uma antiquária que recebe um objeto misterioso", "um professor de história que investiga um enigma antigo", "uma restauradora de arte que descobre uma mensagem oculta", "um genealogista que desvenda um segredo familiar", "um arquivista que encontra documentos impossíveis"},
			Settings:   []string{"numa biblioteca antiga com secções proibidas", "numa loja de antiguidades em Sintra", "numa universidade com túneis secretos", "num museu após o horário de fecho", "num arquivo nacional com documentos selados", "numa mansão cheia de passagens secretas"},
			Conflicts:  []string{"um código que ninguém conseguiu decifrar", "um objeto que não deveria existir", "uma série de coincidências impossíveis", "documentos que contradizem a história oficial", "uma mensagem de alguém que morreu há séculos", "um padrão que se repete através dos tempos"},
			Twists:     []string{"o mistério era uma pista para outro maior", "a solução estava à vista o tempo todo", "o investigador é parte do mistério sem saber", "não há explicação sobrenatural, mas científica", "o mistério foi criado de propósito", "a resposta muda tudo o que se sabia"},
		},
	},
	FiccaoCientifica: {
		ID:             FiccaoCientifica,
		Label:          "Ficção Científica",
		FallbackTitles: []string{"2147: A Nova Terra", "Sinais do Espaço", "O Último Androide"},
		Elements: Elements{
			Characters: []string{"um cientista que cria uma IA consciente", "uma astronauta que encontra vida alienígena", "um viajante do tempo preso no passado", "uma engenheira que descobre uma falha na realidade", "um programador que vive numa simulação", "uma bióloga que cria uma nova forma de vida"},
			Settings:   []string{"numa estação espacial em órbita de Marte", "num laboratório subterrâneo secreto", "numa colónia humana em Europa, lua de Júpiter", "numa cidade futurística controlada por IA", "num bunker após o colapso da civilização", "numa nave geracional a caminho de outra estrela"},
			Conflicts:  []string{"a IA começa a tomar decisões próprias", "o contacto alienígena não corre como esperado", "mudar o passado tem consequências inesperadas", "a realidade começa a desmoronar-se", "descobrir que se vive numa simulação", "a criação escapa ao controlo"},
			Twists:     []string{"os humanos são os alienígenas", "o futuro já aconteceu e está a repetir-se", "a IA era humana o tempo todo", "a Terra é que é a simulação", "os alienígenas são humanos do futuro", "a experiência era um teste para a humanidade"},
		},
	},
	Historico: {
		ID:             Historico,
		Label:          "Histórico",
		FallbackTitles: []string{"Lisboa, 1755", "A Corte dos Segredos", "Navegadores"},
		Elements: Elements{
			Characters: []string{"um escriba durante a queda de Roma", "uma enfermeira na Primeira Guerra Mundial", "um navegador português nos Descobrimentos", "uma espia durante a Guerra Fria", "um artesão durante a Peste Negra", "uma sufragista em Londres no início do século XX"},
			Settings:   []string{"em Roma durante o cerco bárbaro", "num hospital de campanha em França", "a bordo de uma caravela rumo à Índia", "em Berlim dividido pelo Muro", "numa aldeia medieval isolada pela doença", "nas ruas de Londres durante protestos"},
			Conflicts:  []string{"preservar o conhecimento antes que seja destruído", "salvar vidas enquanto a guerra devasta tudo", "sobreviver a uma viagem perigosa", "passar informação sem ser descoberto", "manter a esperança durante a tragédia", "lutar por direitos numa sociedade opressora"},
			Twists:     []string{"um documento histórico que muda tudo", "a personagem é mais importante do que pensava", "um evento histórico visto de um ângulo novo", "a história oficial estava errada", "um encontro com uma figura histórica famosa", "a decisão da personagem muda o curso da história"},
		},
	},
	Erotico: {
		ID:             Erotico,
		Label:          "Erótico",
		Adult:          true,
		FallbackTitles: genericTitles,
		Elements:       genericElements,
	},
	RomanceAdulto: {
		ID:             RomanceAdulto,
		Label:          "Romance Adulto",
		Adult:          true,
		FallbackTitles: genericTitles,
		Elements:       genericElements,
	},
}
